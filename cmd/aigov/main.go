package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"aigov/internal/config"
	"aigov/internal/evidence"
	"aigov/internal/export"
	"aigov/internal/inventory"
	"aigov/internal/lifecycle"
	"aigov/internal/logging"
	"aigov/internal/run"
)

// command describes a CLI subcommand.
type command struct {
	name  string
	short string
	usage string
	long  string
	run   func(args []string) error
}

var commands = []command{
	{
		name:  "init",
		short: "Write a seeded inventory file",
		usage: "aigov init [inventory.yaml]",
		long: `Write the Sentinel Financial sample inventory (three systems, nine
lifecycle risks) to the given path, or to inventory.path from config.

Errors if the file already exists.
`,
		run: runInit,
	},
	{
		name:  "add",
		short: "Add an AI system to an inventory file",
		usage: "aigov add [inventory.yaml]",
		long: `Prompt for the attributes of a new AI system, validate them and
append the system to the inventory file.

Errors if the name is already taken or any field is invalid.
`,
		run: runAdd,
	},
	{
		name:  "score",
		short: "Classify every system into a risk tier",
		usage: "aigov score [inventory.yaml]",
		long: `Load the inventory, recompute the risk tier of every system and print
the total score, tier and required control count per system.
`,
		run: runScore,
	},
	{
		name:  "risks",
		short: "List lifecycle risks ranked by severity",
		usage: "aigov risks [inventory.yaml]",
		long: `Load the inventory and print its lifecycle risks, highest severity
first. Risks of equal severity keep their inventory order.
`,
		run: runRisks,
	},
	{
		name:  "export",
		short: "Generate artifacts, manifest and audit package",
		usage: "aigov export [inventory.yaml]",
		long: `Run the full evidence pipeline in a new run directory under
output.base_dir:

  1. recompute risk tiers
  2. write model_inventory.csv, risk_tiering.json,
     lifecycle_risk_map.json and case1_executive_summary.md
  3. hash every artifact into evidence_manifest.json
  4. package everything into <output.archive_name>.zip

Run directories older than output.retention are removed afterwards.
`,
		run: runExport,
	},
	{
		name:  "verify",
		short: "Re-hash a run's artifacts against its manifest",
		usage: "aigov verify [run-dir]",
		long: `Read evidence_manifest.json from the given run directory (default: the
most recent run under output.base_dir) and re-hash every artifact.

Errors if any artifact is missing or its digest differs.
`,
		run: runVerify,
	},
	{
		name:  "clean",
		short: "Remove run directories past retention",
		usage: "aigov clean",
		long: `Remove run directories under output.base_dir older than
output.retention. A retention of 0 keeps everything.
`,
		run: runClean,
	},
}

var (
	// configFile is set by the global --config flag.
	configFile string
	stdout     io.Writer = os.Stdout
	stderr     io.Writer = os.Stderr
	now                  = time.Now
)

func printUsage(w io.Writer) {
	fmt.Fprintf(w, "aigov: AI system risk tiering and audit evidence\n\n")
	fmt.Fprintf(w, "Usage:\n  aigov [--config file] <command> [arguments]\n\n")
	fmt.Fprintf(w, "Commands:\n")
	for _, cmd := range commands {
		fmt.Fprintf(w, "  %-10s %s\n", cmd.name, cmd.short)
	}
	fmt.Fprintf(w, "\nRun 'aigov help <command>' for details on a specific command.\n")
}

func printCommandHelp(w io.Writer, name string) {
	for _, cmd := range commands {
		if cmd.name == name {
			fmt.Fprintf(w, "Usage: %s\n\n%s", cmd.usage, cmd.long)
			return
		}
	}
	fmt.Fprintf(w, "aigov: unknown command %q\n\nRun 'aigov help' for usage.\n", name)
}

func dispatch(args []string) error {
	if len(args) > 0 && args[0] == "--config" {
		if len(args) < 2 {
			return fmt.Errorf("--config requires a file argument")
		}
		configFile = args[1]
		args = args[2:]
	}
	if len(args) == 0 || args[0] == "--help" || args[0] == "-h" {
		printUsage(stdout)
		return nil
	}
	if args[0] == "help" {
		if len(args) >= 2 {
			printCommandHelp(stdout, args[1])
		} else {
			printUsage(stdout)
		}
		return nil
	}
	for _, cmd := range commands {
		if cmd.name == args[0] {
			return cmd.run(args[1:])
		}
	}
	return fmt.Errorf("unknown command %q\n\nRun 'aigov help' for usage.", args[0])
}

// env is what every command needs after startup.
type env struct {
	cfg   *config.Config
	log   *zap.Logger
	close func() error
}

func setup() (*env, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, err
	}
	logger, closeLog, err := logging.New(cfg.Log, stderr)
	if err != nil {
		return nil, fmt.Errorf("init logging: %w", err)
	}
	return &env{cfg: cfg, log: logger, close: func() error {
		_ = logger.Sync()
		return closeLog()
	}}, nil
}

// inventoryPath returns the optional positional path or the configured one.
func (e *env) inventoryPath(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return e.cfg.Inventory.Path
}

func (e *env) load(path string) (*inventory.Inventory, *inventory.File, error) {
	return inventory.LoadFile(path, e.log, inventory.WithClock(now))
}

func tooMany(args []string, n int, usage string) error {
	if len(args) > n {
		return fmt.Errorf("usage: %s", usage)
	}
	return nil
}

// ---------------------------------------------------------------------------
// init
// ---------------------------------------------------------------------------

func runInit(args []string) error {
	if err := tooMany(args, 1, "aigov init [inventory.yaml]"); err != nil {
		return err
	}
	e, err := setup()
	if err != nil {
		return err
	}
	defer e.close()

	path := e.inventoryPath(args)
	if err := inventory.WriteSeedFile(path); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "wrote seeded inventory to %s\n", path)
	return nil
}

// ---------------------------------------------------------------------------
// add
// ---------------------------------------------------------------------------

func runAdd(args []string) error {
	if err := tooMany(args, 1, "aigov add [inventory.yaml]"); err != nil {
		return err
	}
	e, err := setup()
	if err != nil {
		return err
	}
	defer e.close()

	path := e.inventoryPath(args)
	inv, f, err := e.load(path)
	if err != nil {
		return err
	}

	answers, err := promptQuestions(systemQuestions())
	if err != nil {
		return fmt.Errorf("prompt: %w", err)
	}
	in, err := systemFromAnswers(answers)
	if err != nil {
		return err
	}
	rec, err := inv.AddSystem(in)
	if err != nil {
		return err
	}
	if err := inventory.SaveFile(path, inv.File(f.Submitter)); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "added system %q (%s) to %s\n", rec.Name, rec.SystemID, path)
	return nil
}

// ---------------------------------------------------------------------------
// score
// ---------------------------------------------------------------------------

func runScore(args []string) error {
	if err := tooMany(args, 1, "aigov score [inventory.yaml]"); err != nil {
		return err
	}
	e, err := setup()
	if err != nil {
		return err
	}
	defer e.close()

	inv, _, err := e.load(e.inventoryPath(args))
	if err != nil {
		return err
	}
	inv.RecomputeTiers()
	fmt.Fprint(stdout, renderTiers(inv.Snapshot()))
	return nil
}

// ---------------------------------------------------------------------------
// risks
// ---------------------------------------------------------------------------

func runRisks(args []string) error {
	if err := tooMany(args, 1, "aigov risks [inventory.yaml]"); err != nil {
		return err
	}
	e, err := setup()
	if err != nil {
		return err
	}
	defer e.close()

	inv, _, err := e.load(e.inventoryPath(args))
	if err != nil {
		return err
	}
	snap := inv.Snapshot()
	fmt.Fprint(stdout, renderRisks(snap, lifecycle.Rank(snap.Risks)))
	return nil
}

// ---------------------------------------------------------------------------
// export
// ---------------------------------------------------------------------------

func runExport(args []string) error {
	if err := tooMany(args, 1, "aigov export [inventory.yaml]"); err != nil {
		return err
	}
	e, err := setup()
	if err != nil {
		return err
	}
	defer e.close()

	path := e.inventoryPath(args)
	inv, f, err := e.load(path)
	if err != nil {
		return err
	}
	inputsHash, err := evidence.HashFile(path)
	if err != nil {
		return err
	}
	inv.RecomputeTiers()

	submitter := e.cfg.Evidence.Submitter
	if f.Submitter != "" {
		submitter = f.Submitter
	}
	ws := run.NewWorkspace(e.cfg.Output.BaseDir, e.log)
	r, err := ws.Start(run.Settings{
		Submitter:   submitter,
		AppVersion:  e.cfg.Evidence.AppVersion,
		ArchiveName: e.cfg.Output.ArchiveName,
		InputsHash:  &inputsHash,
	}, run.WithClock(now))
	if err != nil {
		return err
	}

	meta := export.Meta{
		Organization: e.cfg.Report.Organization,
		PreparedBy:   e.cfg.Report.PreparedBy,
		Date:         now(),
	}
	if _, err := r.GenerateArtifacts(inv.Snapshot(), meta); err != nil {
		return err
	}
	m, err := r.GenerateManifest()
	if err != nil {
		return err
	}
	archive, err := r.Package()
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "run %s\n", r.ID())
	for _, a := range m.Artifacts {
		fmt.Fprintf(stdout, "  %s  %s\n", a.SHA256, a.Name)
	}
	fmt.Fprintf(stdout, "  outputs_hash  %s\n", *m.OutputsHash)
	fmt.Fprintf(stdout, "audit package → %s\n", archive)

	removed, err := ws.Cleanup(e.cfg.Output.Retention, now(), r.Dir())
	if err != nil {
		e.log.Warn("retention cleanup failed", zap.Error(err))
	}
	for _, p := range removed {
		fmt.Fprintf(stdout, "removed expired run %s\n", filepath.Base(p))
	}
	return nil
}

// ---------------------------------------------------------------------------
// verify
// ---------------------------------------------------------------------------

func runVerify(args []string) error {
	if err := tooMany(args, 1, "aigov verify [run-dir]"); err != nil {
		return err
	}
	e, err := setup()
	if err != nil {
		return err
	}
	defer e.close()

	dir := ""
	if len(args) > 0 {
		dir = args[0]
	} else {
		latest, err := run.NewWorkspace(e.cfg.Output.BaseDir, e.log).Latest()
		if err != nil {
			return err
		}
		dir = latest.Path
	}

	m, err := evidence.ReadManifest(filepath.Join(dir, evidence.ManifestName))
	if err != nil {
		return err
	}
	checks, verr := evidence.Verify(m, dir)
	fmt.Fprint(stdout, renderChecks(checks))
	if verr != nil {
		if errors.Is(verr, evidence.ErrDigestMismatch) {
			return fmt.Errorf("run %s failed verification: %w", m.RunID, verr)
		}
		return verr
	}
	fmt.Fprintf(stdout, "run %s verified: %d artifacts\n", m.RunID, len(checks))
	return nil
}

// ---------------------------------------------------------------------------
// clean
// ---------------------------------------------------------------------------

func runClean(args []string) error {
	if err := tooMany(args, 0, "aigov clean"); err != nil {
		return err
	}
	e, err := setup()
	if err != nil {
		return err
	}
	defer e.close()

	removed, err := run.NewWorkspace(e.cfg.Output.BaseDir, e.log).Cleanup(e.cfg.Output.Retention, now())
	if err != nil {
		return err
	}
	for _, p := range removed {
		fmt.Fprintf(stdout, "removed %s\n", p)
	}
	fmt.Fprintf(stdout, "%d run(s) removed\n", len(removed))
	return nil
}

func main() {
	if err := dispatch(os.Args[1:]); err != nil {
		log.Fatal(err)
	}
}
