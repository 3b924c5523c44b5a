// Copyright 2025 Certen Protocol

package main

import (
	"crypto/rand"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/certen/trusted-setup/pkg/ceremony/params"
	"github.com/certen/trusted-setup/pkg/ceremony/publickey"
	"github.com/certen/trusted-setup/pkg/ceremony/workpool"
	"github.com/certen/trusted-setup/pkg/phase1"
)

func runPhase1(verb string, args []string) error {
	switch verb {
	case "new", "new-challenge":
		return phase1New(args)
	case "contribute":
		return phase1Contribute(args)
	case "verify":
		return phase1Verify(args)
	case "combine":
		return phase1Combine(args)
	case "split":
		return phase1Split(args)
	default:
		return fmt.Errorf("%w: unknown phase1 verb %q", errUsage, verb)
	}
}

// phase1New implements §6's new(output, hash_out, P): writes a fresh
// identity accumulator.
func phase1New(args []string) error {
	fs := flag.NewFlagSet("phase1 new", flag.ContinueOnError)
	cf := registerCeremonyFlags(fs)
	output := fs.String("output", "", "output accumulator path")
	hashOut := fs.String("hash-out", "", "output digest sidecar path")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	if *output == "" || *hashOut == "" {
		return fmt.Errorf("%w: -output and -hash-out are required", errUsage)
	}
	cfg, eng, err := cf.load()
	if err != nil {
		return err
	}
	runID := newRunID()
	log.Printf("run %s: phase1 new curve=%s k=%d", runID, cfg.Curve, cfg.K)

	p, err := ceremonyParams(cfg, params.Full(), cfg.Chunk.CompressedOutput)
	if err != nil {
		return err
	}
	pool := workpool.New(cfg.Workers.PoolSize)
	buf, err := phase1.Initialize(eng, pool, p, cfg.Chunk.CompressedOutput)
	if err != nil {
		return err
	}
	if err := writeFile(*output, buf); err != nil {
		return err
	}
	if err := writeDigestSidecar(*hashOut, buf); err != nil {
		return err
	}
	log.Printf("run %s: wrote %s (%d bytes)", runID, *output, len(buf))
	return nil
}

// phase1Contribute implements §6's contribute(input, input_hash,
// output, output_hash, check_in, batch_mode, P, rng): applies a fresh
// random (tau, alpha, beta) and writes the response public key.
func phase1Contribute(args []string) error {
	fs := flag.NewFlagSet("phase1 contribute", flag.ContinueOnError)
	cf := registerCeremonyFlags(fs)
	input := fs.String("input", "", "input accumulator path")
	inputHash := fs.String("input-hash", "", "input digest sidecar path")
	output := fs.String("output", "", "output accumulator path")
	hashOut := fs.String("hash-out", "", "output digest sidecar path")
	response := fs.String("response", "", "output response public-key path")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	if *input == "" || *inputHash == "" || *output == "" || *hashOut == "" || *response == "" {
		return fmt.Errorf("%w: -input, -input-hash, -output, -hash-out, and -response are required", errUsage)
	}
	cfg, eng, err := cf.load()
	if err != nil {
		return err
	}
	runID := newRunID()
	log.Printf("run %s: phase1 contribute curve=%s k=%d", runID, cfg.Curve, cfg.K)

	checkIn, err := cf.checkLevel(cf.checkIn, cfg.Check.Input)
	if err != nil {
		return err
	}
	mode, err := resolveScalarMode(cfg)
	if err != nil {
		return err
	}
	p, err := ceremonyParams(cfg, params.Full(), cfg.Chunk.CompressedInput)
	if err != nil {
		return err
	}

	in, err := readFile(*input)
	if err != nil {
		return err
	}
	d, err := readDigestSidecar(*inputHash)
	if err != nil {
		return err
	}
	pk, sk, err := publickey.KeyGenerate(eng, rand.Reader, d)
	if err != nil {
		return err
	}

	pool := workpool.New(cfg.Workers.PoolSize)
	out, err := phase1.Contribute(eng, pool, p, in, cfg.Chunk.CompressedInput, checkIn, cfg.Chunk.CompressedOutput, sk, mode)
	if err != nil {
		return err
	}
	if err := writeFile(*output, out); err != nil {
		return err
	}
	if err := writeDigestSidecar(*hashOut, out); err != nil {
		return err
	}
	if err := writeFile(*response, writePublicKey(eng, pk)); err != nil {
		return err
	}
	log.Printf("run %s: wrote %s and response %s", runID, *output, *response)
	return nil
}

// phase1Verify implements §6's verify_and_transform_pok(input, in_hash,
// check_in, response, resp_hash, check_out, new_challenge, nc_hash,
// sg_mode, ratio_check, P).
func phase1Verify(args []string) error {
	fs := flag.NewFlagSet("phase1 verify", flag.ContinueOnError)
	cf := registerCeremonyFlags(fs)
	input := fs.String("input", "", "pre-contribution accumulator path")
	inputHash := fs.String("input-hash", "", "pre-contribution digest sidecar path")
	output := fs.String("output", "", "post-contribution accumulator path")
	response := fs.String("response", "", "response public-key path")
	ratioCheck := fs.Bool("ratio-check", true, "run the finished-accumulator chunk-ratio check")
	firstChunk := fs.Bool("first-chunk", true, "this is the first (or only) chunk")
	newChallenge := fs.String("new-challenge", "", "output decompressed new-challenge accumulator path (optional)")
	ncHash := fs.String("nc-hash", "", "output new-challenge digest sidecar path (required with -new-challenge)")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	if *input == "" || *inputHash == "" || *output == "" || *response == "" {
		return fmt.Errorf("%w: -input, -input-hash, -output, and -response are required", errUsage)
	}
	if (*newChallenge == "") != (*ncHash == "") {
		return fmt.Errorf("%w: -new-challenge and -nc-hash must be given together", errUsage)
	}
	cfg, eng, err := cf.load()
	if err != nil {
		return err
	}

	checkIn, err := cf.checkLevel(cf.checkIn, cfg.Check.Input)
	if err != nil {
		return err
	}
	checkOut, err := cf.checkLevel(cf.checkOut, cfg.Check.Output)
	if err != nil {
		return err
	}
	p, err := ceremonyParams(cfg, params.Full(), cfg.Chunk.CompressedInput)
	if err != nil {
		return err
	}

	in, err := readFile(*input)
	if err != nil {
		return err
	}
	out, err := readFile(*output)
	if err != nil {
		return err
	}
	d, err := readDigestSidecar(*inputHash)
	if err != nil {
		return err
	}
	respBuf, err := readFile(*response)
	if err != nil {
		return err
	}
	pk, err := readPublicKey(eng, respBuf, checkIn)
	if err != nil {
		return err
	}

	pool := workpool.New(cfg.Workers.PoolSize)
	opt := phase1.VerifyOptions{
		InCompressed: cfg.Chunk.CompressedInput, OutCompressed: cfg.Chunk.CompressedOutput,
		CheckIn: checkIn, CheckOut: checkOut, RatioCheck: *ratioCheck,
	}
	var nc []byte
	if *newChallenge != "" {
		nc = make([]byte, p.ActiveBufferSize(eng, false))
	}
	if err := phase1.Verify(eng, pool, p, in, out, pk, d, opt, *firstChunk, nc); err != nil {
		return err
	}
	if *newChallenge != "" {
		if err := writeFile(*newChallenge, nc); err != nil {
			return err
		}
		if err := writeDigestSidecar(*ncHash, nc); err != nil {
			return err
		}
		log.Printf("phase1 verify: wrote new_challenge %s (%d bytes)", *newChallenge, len(nc))
	}
	log.Printf("phase1 verify: %s -> %s ok", *input, *output)
	return nil
}

// phase1Combine implements §6's combine(list, combined, P).
func phase1Combine(args []string) error {
	fs := flag.NewFlagSet("phase1 combine", flag.ContinueOnError)
	cf := registerCeremonyFlags(fs)
	prefix := fs.String("chunk-prefix", "", "chunk file name prefix")
	chunkSize := fs.Int("chunk-elems", 0, "chunk size in elements")
	output := fs.String("output", "", "combined accumulator output path")
	hashOut := fs.String("hash-out", "", "output digest sidecar path")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	if *prefix == "" || *chunkSize <= 0 || *output == "" || *hashOut == "" {
		return fmt.Errorf("%w: -chunk-prefix, -chunk-elems, -output, and -hash-out are required", errUsage)
	}
	cfg, eng, err := cf.load()
	if err != nil {
		return err
	}
	p, err := ceremonyParams(cfg, params.Full(), cfg.Chunk.CompressedOutput)
	if err != nil {
		return err
	}

	files, err := discoverChunkFiles(*prefix)
	if err != nil {
		return err
	}
	combined, err := phase1.Combine(eng, files, p, *chunkSize, cfg.Chunk.CompressedOutput)
	if err != nil {
		return err
	}
	if err := writeFile(*output, combined); err != nil {
		return err
	}
	return writeDigestSidecar(*hashOut, combined)
}

// phase1Split implements §6's split(prefix, full, P).
func phase1Split(args []string) error {
	fs := flag.NewFlagSet("phase1 split", flag.ContinueOnError)
	cf := registerCeremonyFlags(fs)
	full := fs.String("full", "", "full accumulator input path")
	prefix := fs.String("chunk-prefix", "", "chunk file name prefix to write")
	chunkSize := fs.Int("chunk-elems", 0, "chunk size in elements")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	if *full == "" || *prefix == "" || *chunkSize <= 0 {
		return fmt.Errorf("%w: -full, -chunk-prefix, and -chunk-elems are required", errUsage)
	}
	cfg, eng, err := cf.load()
	if err != nil {
		return err
	}
	p, err := ceremonyParams(cfg, params.Full(), cfg.Chunk.CompressedOutput)
	if err != nil {
		return err
	}
	buf, err := readFile(*full)
	if err != nil {
		return err
	}
	chunks, err := phase1.Split(eng, buf, p, *chunkSize, cfg.Chunk.CompressedOutput)
	if err != nil {
		return err
	}
	for _, c := range chunks {
		if err := writeFile(c.Name(*prefix), c.Data); err != nil {
			return err
		}
	}
	log.Printf("phase1 split: wrote %d chunk files under prefix %s", len(chunks), *prefix)
	return nil
}

var vectorTagNames = map[string]params.VectorTag{
	"tau_g1": params.TauG1, "tau_g2": params.TauG2,
	"alpha_g1": params.AlphaG1, "beta_g1": params.BetaG1, "beta_g2": params.BetaG2,
}

// discoverChunkFiles globs "<prefix>.*.*" and parses each name
// back into a phase1.ChunkFile, inverting ChunkFile.Name's
// "%s.%s.%06d" format.
func discoverChunkFiles(prefix string) ([]phase1.ChunkFile, error) {
	matches, err := filepath.Glob(prefix + ".*.*")
	if err != nil {
		return nil, fmt.Errorf("phase1 combine: glob %s: %w", prefix, err)
	}
	base := filepath.Base(prefix)
	out := make([]phase1.ChunkFile, 0, len(matches))
	for _, m := range matches {
		name := strings.TrimPrefix(filepath.Base(m), base+".")
		parts := strings.Split(name, ".")
		if len(parts) != 2 {
			continue
		}
		tag, ok := vectorTagNames[parts[0]]
		if !ok {
			continue
		}
		idx, err := strconv.Atoi(parts[1])
		if err != nil {
			continue
		}
		data, err := os.ReadFile(m)
		if err != nil {
			return nil, fmt.Errorf("phase1 combine: read %s: %w", m, err)
		}
		out = append(out, phase1.ChunkFile{Tag: tag, ChunkIndex: idx, Data: data})
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("phase1 combine: no chunk files matched prefix %q", prefix)
	}
	return out, nil
}
