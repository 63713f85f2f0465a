package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/go-logr/logr"
	"github.com/spf13/cast"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/hasbyte1/go-laravel-pbkdf2/hashing"
)

const envPrefix = "PBKDF2"

var BuildVersion = "dev"

type cli struct {
	v      *viper.Viper
	log    logr.Logger
	zl     *zap.Logger
	hasher *hashing.Pbkdf2Hasher
}

func newRootCommand() *cobra.Command {
	c := &cli{v: viper.New(), log: logr.Discard()}

	root := &cobra.Command{
		Use:   "pbkdf2",
		Short: "PBKDF2 password hashing CLI",
		Long: "Create, verify and inspect PBKDF2 password hashes.\n\n" +
			"Every flag can also be set through a " + envPrefix + "_* environment variable,\n" +
			"e.g. " + envPrefix + "_MIN_ITERATIONS=20000.",
		SilenceUsage:      true,
		PersistentPreRunE: c.setup,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if c.zl != nil {
				_ = c.zl.Sync()
			}
		},
	}

	flags := root.PersistentFlags()
	flags.Int("iterations", hashing.DefaultIterations, "Default PBKDF2 round count.")
	flags.Int("salt-len", hashing.DefaultSaltLen, "Default salt length in bytes.")
	flags.Int("key-len", hashing.DefaultKeyLen, "Default derived key length in bytes.")
	flags.Int("min-iterations", hashing.MinIterations, "Minimum round count; lower stored values need a rehash.")
	flags.Int("min-salt-len", hashing.MinSaltLen, "Minimum salt length in bytes.")
	flags.Int("min-key-len", hashing.MinKeyLen, "Minimum derived key length in bytes.")
	flags.String("digest", string(hashing.DigestSHA256), "PRF digest: "+digestList()+".")
	flags.Bool("legacy", false, "Use the legacy parameter set (SHA-1, iteration-only rehash).")
	flags.String("log-level", "warn", "Log level: debug, info, warn or error.")
	flags.String("log-format", "console", "Log format: console or json.")

	bindEnv(c.v, flags)

	root.AddCommand(
		c.makeCommand(),
		c.checkCommand(),
		c.needsRehashCommand(),
		c.infoCommand(),
		c.saltCommand(),
		&cobra.Command{
			Use:   "version",
			Short: "Print the version number",
			Args:  cobra.NoArgs,
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintln(cmd.OutOrStdout(), BuildVersion)
			},
		},
	)
	return root
}

func (c *cli) setup(cmd *cobra.Command, args []string) error {
	log, zl, err := newLogger(c.v.GetString("log-level"), c.v.GetString("log-format"))
	if err != nil {
		return err
	}
	c.log, c.zl = log, zl

	cfg, err := c.config()
	if err != nil {
		return err
	}
	h, err := hashing.NewPbkdf2Hasher(cfg)
	if err != nil {
		return fmt.Errorf("configure hasher: %w", err)
	}
	c.hasher = h
	c.log.V(1).Info("hasher configured",
		"digest", cfg.Digest.String(),
		"iterations", cfg.Iterations,
		"min_iterations", cfg.MinIterations,
	)
	return nil
}

// config starts from the default or legacy parameter set and applies only
// the flags and environment variables that were actually given.
func (c *cli) config() (hashing.Config, error) {
	cfg := hashing.DefaultConfig()
	if c.v.GetBool("legacy") {
		cfg = hashing.LegacyConfig()
	}

	ints := []struct {
		key string
		dst *int
	}{
		{"iterations", &cfg.Iterations},
		{"salt-len", &cfg.SaltLen},
		{"key-len", &cfg.KeyLen},
		{"min-iterations", &cfg.MinIterations},
		{"min-salt-len", &cfg.MinSaltLen},
		{"min-key-len", &cfg.MinKeyLen},
	}
	for _, f := range ints {
		if !c.v.IsSet(f.key) {
			continue
		}
		n, err := cast.ToIntE(c.v.Get(f.key))
		if err != nil {
			return cfg, fmt.Errorf("invalid --%s: %w", f.key, err)
		}
		*f.dst = n
	}
	if c.v.IsSet("digest") {
		cfg.Digest = hashing.Digest(strings.ToLower(c.v.GetString("digest")))
	}
	cfg.Logger = c.log
	return cfg, nil
}

// bindEnv lets PBKDF2_<FLAG_NAME> stand in for any flag in fs. No config
// file is read.
func bindEnv(v *viper.Viper, fs *pflag.FlagSet) {
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	_ = v.BindPFlags(fs)
}

type namedDriver struct {
	name hashing.DriverName
	h    hashing.Hasher
}

// manager verifies against the configured hasher first, then the legacy
// parameter set (unless it already is the configured one) and finally the
// bcrypt and Argon2 verifiers, so any hash a Laravel application may hold can
// be checked and upgraded.
func (c *cli) manager() (*hashing.Manager, error) {
	m := hashing.NewManager(hashing.DriverPbkdf2)
	drivers := []namedDriver{
		{hashing.DriverPbkdf2, c.hasher},
		{hashing.DriverBcrypt, hashing.NewBcryptVerifier(c.log)},
	}
	if !c.v.GetBool("legacy") {
		legacy := hashing.LegacyConfig()
		legacy.Logger = c.log
		lh, err := hashing.NewPbkdf2Hasher(legacy)
		if err != nil {
			return nil, err
		}
		drivers = append(drivers, namedDriver{hashing.DriverPbkdf2Legacy, lh})
	}
	for _, variant := range []hashing.DriverName{hashing.DriverArgon2i, hashing.DriverArgon2id} {
		av, err := hashing.NewArgon2Verifier(variant, c.log)
		if err != nil {
			return nil, err
		}
		drivers = append(drivers, namedDriver{variant, av})
	}
	for _, d := range drivers {
		if err := m.RegisterDriver(d.name, d.h); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// readPassword returns args[i] when present, otherwise the first line of
// stdin without its line terminator.
func readPassword(cmd *cobra.Command, args []string, i int) (string, error) {
	if len(args) > i {
		return args[i], nil
	}
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read password from stdin: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func digestList() string {
	names := make([]string, 0, len(hashing.Digests()))
	for _, d := range hashing.Digests() {
		names = append(names, d.String())
	}
	return strings.Join(names, ", ")
}
