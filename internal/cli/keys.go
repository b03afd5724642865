package cli

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/LeJamon/solcastd/internal/core/ledger/entry"
	"github.com/LeJamon/solcastd/internal/crypto"
)

// errNoKey is returned by commands that sign when --key is unset.
var errNoKey = errors.New("a signer key file is required (--key)")

// keyFile is the on-disk form of a signing identity.
type keyFile struct {
	KeyType string `toml:"key_type"`
	Seed    string `toml:"seed"`
	Address string `toml:"address"`
}

type signer struct {
	keys *crypto.KeyPair
	id   entry.Address
}

func loadSigner(path string) (*signer, error) {
	if path == "" {
		return nil, errNoKey
	}
	var kf keyFile
	if _, err := toml.DecodeFile(path, &kf); err != nil {
		return nil, fmt.Errorf("read key file: %w", err)
	}
	seed, err := hex.DecodeString(kf.Seed)
	if err != nil {
		return nil, fmt.Errorf("key file seed: %w", err)
	}
	kp, err := crypto.GenerateKeyPair(seed, crypto.ParseKeyType(kf.KeyType))
	if err != nil {
		return nil, err
	}
	id := entry.Address(kp.AccountID())
	if kf.Address != "" && kf.Address != id.String() {
		return nil, fmt.Errorf("key file address %s does not match its seed (%s)", kf.Address, id)
	}
	return &signer{keys: kp, id: id}, nil
}

func writeKeyFile(path string, kf keyFile, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("key file already exists: %s", path)
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o600)
	if err != nil {
		return err
	}
	defer f.Close()
	return toml.NewEncoder(f).Encode(kf)
}

var (
	keyType      string
	keyOverwrite bool
)

var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "Manage signer key files",
}

var keysGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a new signer key file at --key",
	RunE: func(cmd *cobra.Command, args []string) error {
		if keyPath == "" {
			return errNoKey
		}
		kt := crypto.ParseKeyType(keyType)
		if kt == crypto.KeyTypeUnknown {
			return fmt.Errorf("unknown key type %q", keyType)
		}

		seed := make([]byte, 16)
		if _, err := rand.Read(seed); err != nil {
			return err
		}
		kp, err := crypto.GenerateKeyPair(seed, kt)
		if err != nil {
			return err
		}
		id := entry.Address(kp.AccountID())
		if err := writeKeyFile(keyPath, keyFile{
			KeyType: kt.String(),
			Seed:    hex.EncodeToString(seed),
			Address: id.String(),
		}, keyOverwrite); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n", id)
		return nil
	},
}

var keysShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the address of the --key signer",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadSigner(keyPath)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n", s.id)
		return nil
	},
}

func init() {
	keysGenerateCmd.Flags().StringVar(&keyType, "type", "secp256k1", "key type (secp256k1 or ed25519)")
	keysGenerateCmd.Flags().BoolVar(&keyOverwrite, "force", false, "overwrite an existing key file")
	keysCmd.AddCommand(keysGenerateCmd, keysShowCmd)
	rootCmd.AddCommand(keysCmd)
}
