// Copyright 2025 Certen Protocol

package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/certen/trusted-setup/pkg/attestation"
)

func runAttest(verb string, args []string) error {
	switch verb {
	case "keygen":
		return attestKeygen(args)
	case "sign":
		return attestSign(args)
	case "verify":
		return attestVerify(args)
	case "aggregate":
		return attestAggregate(args)
	case "verify-aggregate":
		return attestVerifyAggregate(args)
	default:
		return fmt.Errorf("%w: unknown attest verb %q", errUsage, verb)
	}
}

func resolveDomain(name string) (string, error) {
	switch name {
	case "contribution":
		return attestation.DomainContribution, nil
	case "final":
		return attestation.DomainFinal, nil
	default:
		return "", fmt.Errorf("%w: -domain must be contribution or final, got %q", errUsage, name)
	}
}

// attestKeygen implements the attestation analogue of §6's key
// setup: loads an operator's signing key from -key, generating and
// persisting one if it doesn't exist yet, and prints its public key.
func attestKeygen(args []string) error {
	fs := flag.NewFlagSet("attest keygen", flag.ContinueOnError)
	keyPath := fs.String("key", "", "attestation private-key file (hex-encoded)")
	pubkeyOut := fs.String("pubkey-out", "", "optional raw public-key output path, for -pubkey/-pubkey-file flags elsewhere")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	if *keyPath == "" {
		return fmt.Errorf("%w: -key is required", errUsage)
	}
	km := attestation.NewKeyManager(*keyPath)
	if err := km.LoadOrGenerate(); err != nil {
		return err
	}
	if *pubkeyOut != "" {
		if err := writeFile(*pubkeyOut, km.PublicKey().Bytes()); err != nil {
			return err
		}
	}
	log.Printf("attest keygen: %s public key %s", *keyPath, km.PublicKeyHex())
	return nil
}

// attestSign signs a digest sidecar file (as written by
// writeDigestSidecar) with an operator's attestation key, producing a
// standalone co-signature independent of the ceremony's own curve.
func attestSign(args []string) error {
	fs := flag.NewFlagSet("attest sign", flag.ContinueOnError)
	keyPath := fs.String("key", "", "attestation private-key file")
	digestPath := fs.String("digest", "", "digest sidecar path to sign")
	domainName := fs.String("domain", "final", "domain tag: contribution or final")
	output := fs.String("output", "", "output signature path")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	if *keyPath == "" || *digestPath == "" || *output == "" {
		return fmt.Errorf("%w: -key, -digest, and -output are required", errUsage)
	}
	domain, err := resolveDomain(*domainName)
	if err != nil {
		return err
	}
	km := attestation.NewKeyManager(*keyPath)
	if err := km.LoadOrGenerate(); err != nil {
		return err
	}
	d, err := readFile(*digestPath)
	if err != nil {
		return err
	}
	sig := km.PrivateKey().Sign(domain, d)
	if err := writeFile(*output, sig.Bytes()); err != nil {
		return err
	}
	log.Printf("attest sign: %s -> %s (signer %s)", *digestPath, *output, km.PublicKeyHex())
	return nil
}

// attestVerify checks a single signature against a digest and a
// public key file.
func attestVerify(args []string) error {
	fs := flag.NewFlagSet("attest verify", flag.ContinueOnError)
	pubkeyPath := fs.String("pubkey", "", "signer public-key file")
	digestPath := fs.String("digest", "", "digest sidecar path that was signed")
	domainName := fs.String("domain", "final", "domain tag: contribution or final")
	sigPath := fs.String("sig", "", "signature path")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	if *pubkeyPath == "" || *digestPath == "" || *sigPath == "" {
		return fmt.Errorf("%w: -pubkey, -digest, and -sig are required", errUsage)
	}
	domain, err := resolveDomain(*domainName)
	if err != nil {
		return err
	}
	pkBuf, err := readFile(*pubkeyPath)
	if err != nil {
		return err
	}
	if err := attestation.ValidatePublicKeySubgroup(pkBuf); err != nil {
		return err
	}
	pk, err := attestation.PublicKeyFromBytes(pkBuf)
	if err != nil {
		return err
	}
	d, err := readFile(*digestPath)
	if err != nil {
		return err
	}
	sigBuf, err := readFile(*sigPath)
	if err != nil {
		return err
	}
	sig, err := attestation.SignatureFromBytes(sigBuf)
	if err != nil {
		return err
	}
	if !pk.Verify(sig, domain, d) {
		return fmt.Errorf("attest verify: signature %s does not verify against %s under key %s", *sigPath, *digestPath, *pubkeyPath)
	}
	log.Printf("attest verify: %s ok", *sigPath)
	return nil
}

// attestAggregate sums any number of signatures over the same digest
// into one compact co-signature.
func attestAggregate(args []string) error {
	fs := flag.NewFlagSet("attest aggregate", flag.ContinueOnError)
	output := fs.String("output", "", "aggregate signature output path")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	sigPaths := fs.Args()
	if *output == "" || len(sigPaths) == 0 {
		return fmt.Errorf("%w: -output and at least one signature path are required", errUsage)
	}
	sigs := make([]*attestation.Signature, len(sigPaths))
	for i, path := range sigPaths {
		buf, err := readFile(path)
		if err != nil {
			return err
		}
		sig, err := attestation.SignatureFromBytes(buf)
		if err != nil {
			return err
		}
		sigs[i] = sig
	}
	agg, err := attestation.AggregateSignatures(sigs)
	if err != nil {
		return err
	}
	if err := writeFile(*output, agg.Bytes()); err != nil {
		return err
	}
	log.Printf("attest aggregate: %d signatures -> %s", len(sigs), *output)
	return nil
}

// attestVerifyAggregate checks an aggregate signature against the
// aggregate of its signers' public keys, e.g. to confirm a quorum of
// auditors co-signed the same final-accumulator digest.
func attestVerifyAggregate(args []string) error {
	fs := flag.NewFlagSet("attest verify-aggregate", flag.ContinueOnError)
	digestPath := fs.String("digest", "", "digest sidecar path that was signed")
	domainName := fs.String("domain", "final", "domain tag: contribution or final")
	sigPath := fs.String("sig", "", "aggregate signature path")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	pubkeyPaths := fs.Args()
	if *digestPath == "" || *sigPath == "" || len(pubkeyPaths) == 0 {
		return fmt.Errorf("%w: -digest, -sig, and at least one public-key path are required", errUsage)
	}
	domain, err := resolveDomain(*domainName)
	if err != nil {
		return err
	}
	pks := make([]*attestation.PublicKey, len(pubkeyPaths))
	for i, path := range pubkeyPaths {
		buf, err := readFile(path)
		if err != nil {
			return err
		}
		if err := attestation.ValidatePublicKeySubgroup(buf); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		pk, err := attestation.PublicKeyFromBytes(buf)
		if err != nil {
			return err
		}
		pks[i] = pk
	}
	d, err := readFile(*digestPath)
	if err != nil {
		return err
	}
	sigBuf, err := readFile(*sigPath)
	if err != nil {
		return err
	}
	sig, err := attestation.SignatureFromBytes(sigBuf)
	if err != nil {
		return err
	}
	if !attestation.VerifyAggregate(sig, pks, domain, d) {
		return fmt.Errorf("attest verify-aggregate: %s does not verify against %s for %d signers", *sigPath, *digestPath, len(pks))
	}
	log.Printf("attest verify-aggregate: %s ok (%d signers)", *sigPath, len(pks))
	return nil
}
