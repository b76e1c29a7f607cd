package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/alexflint/go-arg"
	"github.com/spf13/afero"

	"github.com/opsfleet/emp/cliutil"
	"github.com/opsfleet/emp/dispatch"
	"github.com/opsfleet/emp/errwrap"
	"github.com/opsfleet/emp/fleetssh"
	"github.com/opsfleet/emp/hosts"
	"github.com/opsfleet/emp/logx"
)

// CLI is the entry point after the real main function: it parses arguments,
// builds the inventory and dispatcher, and runs whichever subcommand
// activated.
func CLI(ctx context.Context, data *cliutil.Data) error {
	if data == nil || data.Program == "" || data.Version == "" {
		return fmt.Errorf("this CLI was not run correctly")
	}

	args := &Args{version: data.Version}
	config := arg.Config{Program: cliutil.SafeProgram(data.Program)}
	parser, err := arg.NewParser(config, args)
	if err != nil {
		return errwrap.Wrapf(err, "cli config error")
	}

	err = parser.Parse(data.Args[1:])
	if err == arg.ErrHelp {
		parser.WriteHelp(os.Stdout)
		return nil
	}
	if err == arg.ErrVersion {
		fmt.Printf("%s\n", data.Version)
		return nil
	}
	if err != nil {
		return cliutil.CliParseError(err)
	}

	log := logx.New(verbosityFromEnv(args.Verbose))

	inv, err := hosts.Load(args.HostsFile)
	if err != nil {
		return errwrap.Wrapf(err, "can't load inventory")
	}

	d := dispatch.New(inv, log, fleetssh.Options{
		KnownHostsPath:        args.KnownHosts,
		InsecureIgnoreHostKey: args.Insecure,
		PrivateKeyPath:        args.PrivateKey,
	}, afero.NewOsFs(), args.MaxParallel)

	ok, err := args.Run(ctx, d)
	if err != nil {
		return err
	}
	if ok {
		return nil
	}

	parser.WriteHelp(os.Stdout)
	return nil
}

// verbosityFromEnv derives a log level from the V environment variable
// (0/1/2), overridden to Debug by -v/--verbose (spec.md §6).
func verbosityFromEnv(verboseFlag bool) logx.Level {
	if verboseFlag {
		return logx.Debug
	}
	switch os.Getenv("V") {
	case "1":
		return logx.Normal
	case "2":
		return logx.Debug
	default:
		return logx.Quiet
	}
}

// rebuildFromEnv reports whether the RB environment variable forces a
// rebuild (spec.md §6: "non-zero forces rebuild").
func rebuildFromEnv() bool {
	n, err := strconv.Atoi(os.Getenv("RB"))
	return err == nil && n != 0
}

// Run executes whichever subcommand activated, returning true if one did.
func (a *Args) Run(ctx context.Context, d *dispatch.Dispatcher) (bool, error) {
	rebuild := rebuildFromEnv()

	if cmd := a.CheckCmd; cmd != nil {
		d.Log.Debugf("running subcommand %q", cliutil.LookupSubcommand(a, cmd))
		return true, d.Check(ctx, cmd.Selector)
	}
	if cmd := a.TTYCmd; cmd != nil {
		d.Log.Debugf("running subcommand %q", cliutil.LookupSubcommand(a, cmd))
		return true, d.TTY(ctx, cmd.Selector)
	}
	if cmd := a.CommandCmd; cmd != nil {
		d.Log.Debugf("running subcommand %q", cliutil.LookupSubcommand(a, cmd))
		return true, d.Command(ctx, cmd.Selector, cmd.Cmd, cmd.All)
	}
	if cmd := a.AttachedCmd; cmd != nil {
		d.Log.Debugf("running subcommand %q", cliutil.LookupSubcommand(a, cmd))
		_, err := d.Attached(ctx, cmd.Selector, cmd.Dir, cmd.Rebuild || rebuild)
		return true, err
	}
	if cmd := a.DetachedCmd; cmd != nil {
		d.Log.Debugf("running subcommand %q", cliutil.LookupSubcommand(a, cmd))
		_, err := d.Detached(ctx, cmd.Selector, cmd.Dir, cmd.Rebuild || rebuild, cmd.All)
		return true, err
	}

	return false, nil
}
