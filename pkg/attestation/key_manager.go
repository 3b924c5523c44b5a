// Copyright 2025 Certen Protocol

package attestation

import (
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
)

// KeyManager loads an operator's attestation key from disk, or
// generates and persists a fresh one on first use.
type KeyManager struct {
	keyPath    string
	privateKey *PrivateKey
	publicKey  *PublicKey
}

func NewKeyManager(keyPath string) *KeyManager {
	return &KeyManager{keyPath: keyPath}
}

// LoadOrGenerate loads the key at keyPath, or generates and saves a
// new one if no file exists there yet.
func (km *KeyManager) LoadOrGenerate() error {
	if km.keyPath != "" {
		if _, err := os.Stat(km.keyPath); err == nil {
			return km.Load()
		}
	}
	return km.generateAndSave()
}

func (km *KeyManager) Load() error {
	if km.keyPath == "" {
		return fmt.Errorf("attestation: no key path specified")
	}
	data, err := os.ReadFile(km.keyPath)
	if err != nil {
		return fmt.Errorf("attestation: read key file: %w", err)
	}
	keyBytes, err := hex.DecodeString(string(data))
	if err != nil {
		return fmt.Errorf("attestation: decode key hex: %w", err)
	}
	km.privateKey, err = PrivateKeyFromBytes(keyBytes)
	if err != nil {
		return fmt.Errorf("attestation: parse private key: %w", err)
	}
	km.publicKey = km.privateKey.PublicKey()
	return nil
}

func (km *KeyManager) generateAndSave() error {
	var err error
	km.privateKey, km.publicKey, err = GenerateKeyPair()
	if err != nil {
		return fmt.Errorf("attestation: generate key pair: %w", err)
	}
	if km.keyPath == "" {
		return nil
	}
	return km.Save()
}

func (km *KeyManager) Save() error {
	if km.keyPath == "" {
		return fmt.Errorf("attestation: no key path specified")
	}
	if km.privateKey == nil {
		return fmt.Errorf("attestation: no private key to save")
	}
	if dir := filepath.Dir(km.keyPath); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("attestation: create key directory: %w", err)
		}
	}
	keyHex := hex.EncodeToString(km.privateKey.Bytes())
	if err := os.WriteFile(km.keyPath, []byte(keyHex), 0o600); err != nil {
		return fmt.Errorf("attestation: write key file: %w", err)
	}
	return nil
}

func (km *KeyManager) PrivateKey() *PrivateKey { return km.privateKey }
func (km *KeyManager) PublicKey() *PublicKey   { return km.publicKey }

func (km *KeyManager) PublicKeyHex() string {
	if km.publicKey == nil {
		return ""
	}
	return km.publicKey.Hex()
}
