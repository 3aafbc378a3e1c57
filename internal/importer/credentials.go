/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package importer

import (
	"crypto/rand"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/scrypt"
)

// SongSelect credentials are kept on disk so the operator logs in once.
// The ciphertext and the key material live side by side in the data
// directory; this keeps the password out of casual sight and out of
// settings exports, nothing more.
const (
	credentialFile = "songselect.cred"
	credentialKey  = "songselect.key"
)

// Credentials hold a SongSelect login.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type sealedCredentials struct {
	Salt  []byte `json:"salt"`
	Nonce []byte `json:"nonce"`
	Box   []byte `json:"box"`
}

func deriveKey(material, salt []byte) ([]byte, error) {
	return scrypt.Key(material, salt, 1<<15, 8, 1, chacha20poly1305.KeySize)
}

// SaveCredentials seals a login under a locally generated key.
func SaveCredentials(dir string, creds Credentials) error {
	material := make([]byte, 32)
	if _, err := rand.Read(material); err != nil {
		return fmt.Errorf("generate key material: %w", err)
	}
	salt := make([]byte, 16)
	if _, err := rand.Read(salt); err != nil {
		return fmt.Errorf("generate salt: %w", err)
	}

	key, err := deriveKey(material, salt)
	if err != nil {
		return fmt.Errorf("derive key: %w", err)
	}
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return fmt.Errorf("init cipher: %w", err)
	}

	plain, err := json.Marshal(creds)
	if err != nil {
		return fmt.Errorf("marshal credentials: %w", err)
	}
	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return fmt.Errorf("generate nonce: %w", err)
	}

	sealed := sealedCredentials{
		Salt:  salt,
		Nonce: nonce,
		Box:   aead.Seal(nil, nonce, plain, nil),
	}
	data, err := json.Marshal(sealed)
	if err != nil {
		return fmt.Errorf("marshal sealed credentials: %w", err)
	}

	if err := os.WriteFile(filepath.Join(dir, credentialKey), material, 0o600); err != nil {
		return fmt.Errorf("write key file: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, credentialFile), data, 0o600); err != nil {
		return fmt.Errorf("write credential file: %w", err)
	}
	return nil
}

// LoadCredentials opens a sealed login. os.ErrNotExist is returned when
// no credentials were stored.
func LoadCredentials(dir string) (Credentials, error) {
	material, err := os.ReadFile(filepath.Join(dir, credentialKey))
	if err != nil {
		return Credentials{}, fmt.Errorf("read key file: %w", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, credentialFile))
	if err != nil {
		return Credentials{}, fmt.Errorf("read credential file: %w", err)
	}

	var sealed sealedCredentials
	if err := json.Unmarshal(data, &sealed); err != nil {
		return Credentials{}, fmt.Errorf("parse credential file: %w", err)
	}

	key, err := deriveKey(material, sealed.Salt)
	if err != nil {
		return Credentials{}, fmt.Errorf("derive key: %w", err)
	}
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return Credentials{}, fmt.Errorf("init cipher: %w", err)
	}

	plain, err := aead.Open(nil, sealed.Nonce, sealed.Box, nil)
	if err != nil {
		return Credentials{}, fmt.Errorf("unseal credentials: %w", err)
	}

	var creds Credentials
	if err := json.Unmarshal(plain, &creds); err != nil {
		return Credentials{}, fmt.Errorf("parse credentials: %w", err)
	}
	return creds, nil
}

// DeleteCredentials removes a stored login.
func DeleteCredentials(dir string) error {
	for _, name := range []string{credentialFile, credentialKey} {
		if err := os.Remove(filepath.Join(dir, name)); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("remove %s: %w", name, err)
		}
	}
	return nil
}
