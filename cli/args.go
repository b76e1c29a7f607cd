// Package cli is the external CLI surface of spec.md §6: go-arg subcommand
// structs wired to the dispatch package, plus RB/V environment variable and
// exit-code handling.
package cli

// CheckArgs is the `check` subcommand: probe multiplexer state across the
// selected hosts.
type CheckArgs struct {
	Selector string `arg:"positional,required" help:"host callsign, prefix, or 'all'"`
}

// TTYArgs is the `tty` subcommand: open an interactive shell to one host.
type TTYArgs struct {
	Selector string `arg:"positional,required" help:"host callsign that resolves to exactly one host"`
}

// CommandArgs is the `command` subcommand: run an arbitrary shell command.
type CommandArgs struct {
	Selector string `arg:"positional,required" help:"host callsign, prefix, or 'all'"`
	Cmd      string `arg:"positional,required" help:"shell command to run"`
	All      bool   `arg:"--all" help:"confirm running on the entire inventory"`
}

// AttachedArgs is the `attached` subcommand: sync + conditional build + run
// a module, streaming output.
type AttachedArgs struct {
	Selector string `arg:"positional,required" help:"host callsign, prefix, or 'all'"`
	Dir      string `arg:"positional,required" help:"local module directory"`
	Rebuild  bool   `arg:"--rebuild" help:"force init.sh even if requirements.txt didn't change"`
}

// DetachedArgs is the `detached` subcommand: same as attached, but the run
// step starts inside a detached multiplexer session.
type DetachedArgs struct {
	Selector string `arg:"positional,required" help:"host callsign, prefix, or 'all'"`
	Dir      string `arg:"positional,required" help:"local module directory"`
	Rebuild  bool   `arg:"--rebuild" help:"force init.sh even if requirements.txt didn't change"`
	All      bool   `arg:"--all" help:"confirm running on the entire inventory"`
}

// Args is the top-level CLI parsing structure.
type Args struct {
	HostsFile   string `arg:"--hosts,env:EMP_HOSTS" default:"hosts.json" help:"path to the host inventory file"`
	KnownHosts  string `arg:"--known-hosts" help:"known_hosts file for host key verification"`
	Insecure    bool   `arg:"--insecure" help:"skip host key verification (lab/test inventories only)"`
	PrivateKey  string `arg:"--private-key" help:"ssh private key to try in addition to the inventory password"`
	MaxParallel int    `arg:"--max-parallel" default:"8" help:"maximum hosts touched concurrently during fan-out"`
	Verbose     bool   `arg:"-v,--verbose" help:"enable debug logging"`

	CheckCmd    *CheckArgs    `arg:"subcommand:check" help:"probe multiplexer state across hosts"`
	TTYCmd      *TTYArgs      `arg:"subcommand:tty" help:"open an interactive shell to a host"`
	CommandCmd  *CommandArgs  `arg:"subcommand:command" help:"execute a shell command on one or more hosts"`
	AttachedCmd *AttachedArgs `arg:"subcommand:attached" help:"sync and run a module, streaming output"`
	DetachedCmd *DetachedArgs `arg:"subcommand:detached" help:"sync and run a module in a detached session"`

	version string `arg:"-"` // ignored from parsing
}

// Version implements the interface go-arg looks for to serve --version.
func (a *Args) Version() string {
	return a.version
}
