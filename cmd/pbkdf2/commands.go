package main

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hasbyte1/go-laravel-pbkdf2/hashing"
)

var errMismatch = errors.New("password does not match")

func (c *cli) makeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "make [password]",
		Short: "Hash a password",
		Long:  "Hash a password. The password is read from stdin when not given as an argument.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			password, err := readPassword(cmd, args, 0)
			if err != nil {
				return err
			}
			hash, err := c.hasher.Make(password, nil)
			if err != nil {
				return fmt.Errorf("make hash: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}
}

func (c *cli) checkCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check <hash> [password]",
		Short: "Verify a password against a hash",
		Long: "Verify a password against a hash, trying the configured parameter set and\n" +
			"then the legacy one. Exits non-zero when the password does not match.",
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			password, err := readPassword(cmd, args, 1)
			if err != nil {
				return err
			}
			m, err := c.manager()
			if err != nil {
				return err
			}
			v, err := m.Verify(password, args[0], nil)
			if err != nil {
				return err
			}
			if !v.OK {
				return errMismatch
			}
			fmt.Fprintf(cmd.OutOrStdout(), "valid (driver=%s, needs_rehash=%t)\n", v.Driver, v.NeedsRehash)
			return nil
		},
	}
}

func (c *cli) needsRehashCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "needs-rehash <hash>",
		Short: "Report whether a hash is below the configured minimums",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "%t\n", c.hasher.NeedsRehash(args[0], nil))
			return nil
		},
	}
}

func (c *cli) infoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "info <hash>",
		Short: "Print the parameters stored in a hash as JSON",
		Long:  "Print the parameters stored in a PBKDF2, bcrypt or Argon2 hash as JSON.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var h hashing.Hasher = c.hasher
			if family, ok := hashing.DetectDriver(args[0]); ok && family != hashing.DriverPbkdf2 {
				m, err := c.manager()
				if err != nil {
					return err
				}
				if h, err = m.Driver(family); err != nil {
					return err
				}
			}
			info, err := h.Info(args[0])
			if err != nil {
				return err
			}
			out, err := json.MarshalIndent(struct {
				Driver hashing.DriverName `json:"driver"`
				Params map[string]any     `json:"params"`
			}{info.Driver, info.Params}, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}
}

func (c *cli) saltCommand() *cobra.Command {
	var length int
	cmd := &cobra.Command{
		Use:   "salt",
		Short: "Print a random base64-encoded salt",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			n := length
			if n == 0 {
				n = c.hasher.Resolve(nil).SaltLen
			}
			salt, err := c.hasher.GenerateSalt(n)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), base64.StdEncoding.EncodeToString(salt))
			return nil
		},
	}
	cmd.Flags().IntVar(&length, "length", 0, "Salt length in bytes. Defaults to the resolved salt length.")
	return cmd
}
