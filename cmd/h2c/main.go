package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	flags "github.com/jessevdk/go-flags"
	"github.com/massn/envordot"
	"github.com/oklog/run"

	"go.uber.org/dig"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	rotate "github.com/lestrrat-go/file-rotatelogs"

	"github.com/riverlane/h2-compilation/analyse"
	"github.com/riverlane/h2-compilation/circuit"
	"github.com/riverlane/h2-compilation/commute"
	"github.com/riverlane/h2-compilation/core"
	"github.com/riverlane/h2-compilation/lattice"
	"github.com/riverlane/h2-compilation/pipeline"
	"github.com/riverlane/h2-compilation/qasm"
)

var versionByBuildFlag string
var parser *flags.Parser
var app *App

func init() {
	if err := envordot.Load(false, ".env"); err != nil {
		fmt.Printf("Not found \".env\" file. Use only environment variables. Reason:%s\n", err.Error())
	} else {
		fmt.Println("Found \".env\" file. Environment variables are preferred, " +
			"but non-conflicting variables are those in the \".env\" file.")
	}
	app = &App{}
	setParser(app)
}

type App struct {
	ComponentParameters *ComponentParameters
	Conf                *core.Conf
}

type ComponentParameters struct {
	Negation  string `long:"negation" description:"negation mode for multi-clause Clifford guards" default:"demorgan" choice:"demorgan" choice:"strict" env:"H2C_NEGATION_MODE"`
	BitFormat string `long:"bit-format" description:"classical-bit indexing of measurement targets" default:"textbook" choice:"textbook" choice:"iterative" env:"H2C_BIT_FORMAT"`
}

func setParser(app *App) {
	parser = flags.NewParser(app, flags.Default)
	parser.ShortDescription = "h2c"
	parser.LongDescription = "Pauli-rotation compilation toolkit: translates gate circuits " +
		"to Pauli product rotations and commutes Clifford rotations out of them."
	parser.AddCommand("translate", "translate QASM to Pauli rotations",
		"translate a gate-level QASM file into the Pauli product rotation CSV", newTranslateCmd())
	parser.AddCommand("commute", "eliminate Clifford rotations",
		"commute all pi/2 and pi/4 rotations to the end of a Pauli rotation CSV and drop them", newCommuteCmd())
	parser.AddCommand("analyse", "analyse a Pauli rotation file",
		"report classical branches and Pauli product frequencies of a Pauli rotation CSV", newAnalyseCmd())
	parser.AddCommand("lattice", "translate QASM to lattice-surgery operations",
		"rewrite a gate-level QASM file as a lattice-surgery instruction stream", newLatticeCmd())
	parser.AddCommand("pipeline", "run the full compilation over many files",
		"translate and commute every given QASM file", newPipelineCmd())
}

func parse() {
	if _, err := parser.Parse(); err != nil {
		code := 1
		if fe, ok := err.(*flags.Error); ok {
			if fe.Type == flags.ErrHelp {
				code = 0
			}
		}
		if code == 1 {
			fmt.Printf("failed to parse flags, because %s\n", err)
		}
		os.Exit(code)
	}
}

func main() {
	parse()
}

func (a *App) provideDIContainer() (c *dig.Container, err error) {
	c = dig.New()
	err = c.Provide(func() (*qasm.Translator, error) {
		format, parseErr := qasm.ParseBitFormat(a.ComponentParameters.BitFormat)
		if parseErr != nil {
			return nil, parseErr
		}
		return &qasm.Translator{Format: format}, nil
	})
	if err != nil {
		return &dig.Container{}, err
	}
	err = c.Provide(func() (*commute.Engine, error) {
		mode, parseErr := commute.ParseNegationMode(a.ComponentParameters.Negation)
		if parseErr != nil {
			return nil, parseErr
		}
		return &commute.Engine{
			MaxInstructions: core.GetSetting().Engine.MaxInstructions,
			Negation:        mode,
		}, nil
	})
	if err != nil {
		return &dig.Container{}, err
	}
	err = c.Provide(func() *lattice.Translator { return &lattice.Translator{} })
	if err != nil {
		return &dig.Container{}, err
	}
	err = c.Provide(func(t *qasm.Translator, e *commute.Engine) *pipeline.Runner {
		return pipeline.NewRunner(t, e, core.GetSetting().Pipeline.QueueMaxSize)
	})
	if err != nil {
		return &dig.Container{}, err
	}
	return
}

// setup runs the shared per-command initialization: logger, version,
// setting file, DI container. The setting file is optional; defaults
// apply when it is absent.
func setup() (*dig.Container, func(), error) {
	logger := setZap(app.Conf)
	teardown := func() { logger.Sync() }
	core.SetVersion(app.Conf, versionByBuildFlag)

	core.ResetSetting()
	if _, statErr := os.Stat(app.Conf.SettingPath); statErr == nil {
		if err := core.ParseSettingFromPath(app.Conf.SettingPath); err != nil {
			return nil, teardown, err
		}
	} else {
		zap.L().Debug(fmt.Sprintf("no setting file at %s, using defaults", app.Conf.SettingPath))
	}

	container, err := app.provideDIContainer()
	if err != nil {
		zap.L().Error(fmt.Sprintf("Failed to set up DI-Container. Reason:%s", err))
		return nil, teardown, err
	}
	return container, teardown, nil
}

// runGroup executes fn under a signal handler, with the engine deadline
// from the setting file applied when one is configured.
func runGroup(fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithCancel(context.Background())
	if seconds := core.GetSetting().Engine.TimeoutSeconds; seconds > 0 {
		ctx, cancel = context.WithTimeout(ctx, time.Duration(seconds)*time.Second)
	}
	defer cancel()

	var g run.Group
	g.Add(run.SignalHandler(ctx, os.Interrupt))
	g.Add(func() error { return fn(ctx) }, func(error) { cancel() })

	err := g.Run()
	if _, ok := err.(run.SignalError); ok {
		zap.L().Info(fmt.Sprintf("interrupted: %s", err))
		return err
	}
	if err != nil && err != context.Canceled {
		return err
	}
	return nil
}

type translateCmd struct {
	Output string `long:"output" short:"o" description:"output path (default: <input>_paulis.csv)"`
	Args   struct {
		Input string `positional-arg-name:"INPUT" description:"gate-level QASM file"`
	} `positional-args:"yes" required:"yes"`
}

func newTranslateCmd() *translateCmd { return &translateCmd{} }

func (c *translateCmd) Execute(args []string) error {
	container, teardown, err := setup()
	if err != nil {
		return err
	}
	defer teardown()
	return container.Invoke(func(t *qasm.Translator) error {
		circ, err := translateFile(t, c.Args.Input)
		if err != nil {
			return err
		}
		return writeCircuitFile(outputPath(c.Output, c.Args.Input, ".qasm", "_paulis.csv"), circ)
	})
}

type commuteCmd struct {
	Output string `long:"output" short:"o" description:"output path (default: <input>_commuted.csv)"`
	Args   struct {
		Input string `positional-arg-name:"INPUT" description:"Pauli product rotation CSV file"`
	} `positional-args:"yes" required:"yes"`
}

func newCommuteCmd() *commuteCmd { return &commuteCmd{} }

func (c *commuteCmd) Execute(args []string) error {
	container, teardown, err := setup()
	if err != nil {
		return err
	}
	defer teardown()
	return container.Invoke(func(e *commute.Engine) error {
		circ, err := readCircuitFile(c.Args.Input)
		if err != nil {
			return err
		}
		var commuted circuit.Circuit
		if err := runGroup(func(ctx context.Context) error {
			var runErr error
			commuted, runErr = e.CommuteCliffordsToEnd(ctx, circ)
			return runErr
		}); err != nil {
			return err
		}
		return writeCircuitFile(outputPath(c.Output, c.Args.Input, ".csv", "_commuted.csv"), commuted)
	})
}

type analyseCmd struct {
	Args struct {
		Input string `positional-arg-name:"INPUT" description:"Pauli product rotation CSV file"`
	} `positional-args:"yes" required:"yes"`
}

func newAnalyseCmd() *analyseCmd { return &analyseCmd{} }

func (c *analyseCmd) Execute(args []string) error {
	_, teardown, err := setup()
	if err != nil {
		return err
	}
	defer teardown()
	circ, err := readCircuitFile(c.Args.Input)
	if err != nil {
		return err
	}
	report, err := analyse.NewReport(circ).PrettyJSON()
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(report)
	return err
}

type latticeCmd struct {
	Output string `long:"output" short:"o" description:"output path (default: <input>_ls.eqasm)"`
	Args   struct {
		Input string `positional-arg-name:"INPUT" description:"gate-level QASM file"`
	} `positional-args:"yes" required:"yes"`
}

func newLatticeCmd() *latticeCmd { return &latticeCmd{} }

func (c *latticeCmd) Execute(args []string) error {
	container, teardown, err := setup()
	if err != nil {
		return err
	}
	defer teardown()
	return container.Invoke(func(t *lattice.Translator) error {
		in, err := os.Open(c.Args.Input)
		if err != nil {
			return err
		}
		defer in.Close()
		out, err := os.Create(outputPath(c.Output, c.Args.Input, ".qasm", "_ls.eqasm"))
		if err != nil {
			return err
		}
		defer out.Close()
		return t.Translate(in, out)
	})
}

type pipelineCmd struct {
	Args struct {
		Inputs []string `positional-arg-name:"INPUT" description:"gate-level QASM files" required:"1"`
	} `positional-args:"yes"`
}

func newPipelineCmd() *pipelineCmd { return &pipelineCmd{} }

func (c *pipelineCmd) Execute(args []string) error {
	container, teardown, err := setup()
	if err != nil {
		return err
	}
	defer teardown()
	return container.Invoke(func(r *pipeline.Runner) error {
		for _, input := range c.Args.Inputs {
			if id := r.Submit(input); id == "" {
				return fmt.Errorf("failed to queue %s", input)
			}
		}
		return runGroup(r.Run)
	})
}

func translateFile(t *qasm.Translator, path string) (circuit.Circuit, error) {
	in, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer in.Close()
	circ, err := t.Translate(in)
	if err != nil {
		return nil, err
	}
	zap.L().Info(fmt.Sprintf("translated %s: %d qubits, %d instructions",
		path, circ.NumQubits(), len(circ)))
	return circ, nil
}

func readCircuitFile(path string) (circuit.Circuit, error) {
	in, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer in.Close()
	return circuit.ParseCircuit(in)
}

func writeCircuitFile(path string, circ circuit.Circuit) error {
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	defer out.Close()
	if err := circuit.WriteCircuit(out, circ); err != nil {
		return err
	}
	zap.L().Info(fmt.Sprintf("wrote %d instructions to %s", len(circ), path))
	return nil
}

func outputPath(explicit, input, stripExt, suffix string) string {
	if explicit != "" {
		return explicit
	}
	return strings.TrimSuffix(input, stripExt) + suffix
}

func zapLogger(conf *core.Conf) (*zap.Logger, error) {
	var encoder zapcore.Encoder
	if conf.DevMode {
		encoder = zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	} else {
		c := zap.NewProductionEncoderConfig()
		c.EncodeTime = zapcore.ISO8601TimeEncoder
		c.TimeKey = "timestamp"
		encoder = zapcore.NewJSONEncoder(c)
	}
	var level zap.AtomicLevel
	switch conf.LogLevel {
	case "debug":
		level = zap.NewAtomicLevelAt(zap.DebugLevel)
	case "warn":
		level = zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	default:
		level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}

	cores := []zapcore.Core{}
	if conf.EnableFileLog {
		rotator, err := makeRotator(conf.LogDir, conf.LogRotationMaxDays)
		if err != nil {
			return &zap.Logger{}, err
		}
		syncer := zapcore.AddSync(rotator)
		rotateCore := zapcore.NewCore(
			encoder,
			syncer,
			level)
		cores = append(cores, rotateCore)
	}
	if !conf.DisableStdoutLog {
		stdoutCore := zapcore.NewCore(
			encoder,
			zapcore.Lock(os.Stdout),
			level)
		cores = append(cores, stdoutCore)
	}
	return zap.New(zapcore.NewTee(cores...), zap.AddCaller()), nil
}

func makeRotator(dirPath string, rotationMaxDays int) (*rotate.RotateLogs, error) {
	info, err := os.Stat(dirPath)
	if err != nil {
		return &rotate.RotateLogs{}, fmt.Errorf("directory:%s is not found", dirPath)
	}
	if info.Mode().Perm()&(1<<uint(7)) == 0 {
		return &rotate.RotateLogs{}, fmt.Errorf("%s is not a writable directory", dirPath)
	}
	rotator, err := rotate.New(
		filepath.Join(dirPath, "h2c-%Y-%m-%d.log"),
		rotate.WithMaxAge(time.Duration(rotationMaxDays)*24*time.Hour),
		rotate.WithRotationTime(time.Hour))
	if err != nil {
		return &rotate.RotateLogs{}, err
	}
	return rotator, nil
}

func setZap(conf *core.Conf) *zap.Logger {
	logger, err := zapLogger(conf)
	if err != nil {
		fmt.Printf("Failed to setup logger. Reason:%s\n", err)
		panic(err)
	}
	zap.ReplaceGlobals(logger)
	zap.L().Debug(fmt.Sprintf("DevMode is %t", conf.DevMode))
	return logger
}
