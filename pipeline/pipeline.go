package pipeline

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/riverlane/h2-compilation/circuit"
	"github.com/riverlane/h2-compilation/commute"
	"github.com/riverlane/h2-compilation/qasm"
)

// Job is one QASM file queued for compilation. Next to the input the
// runner writes <base>_paulis.csv, the translated Pauli product
// rotations, and <base>_commuted.csv, the sequence after Clifford
// elimination.
type Job struct {
	ID        string
	InputPath string
}

// Runner feeds queued QASM files through translate, commute and
// serialize. Jobs past the queue ceiling are dropped with a log line
// rather than an error, so a directory sweep can keep submitting.
type Runner struct {
	Translator *qasm.Translator
	Engine     *commute.Engine

	fifo    fifo
	maxSize int
}

func NewRunner(translator *qasm.Translator, engine *commute.Engine, maxSize int) *Runner {
	return &Runner{
		Translator: translator,
		Engine:     engine,
		fifo:       newConqFIFO(),
		maxSize:    maxSize,
	}
}

// Submit queues one input file and returns the job ID, or "" when the
// queue is full.
func (r *Runner) Submit(inputPath string) string {
	job := &Job{
		ID:        uuid.New().String(),
		InputPath: inputPath,
	}
	if r.maxSize > 0 && r.maxSize <= r.fifo.GetLen() {
		zap.L().Info(fmt.Sprintf("Failed to queue %s. Pipeline queue is full.", inputPath))
		return ""
	}
	if err := r.fifo.Enqueue(job); err != nil {
		zap.L().Error(fmt.Sprintf("Failed to queue %s. Reason:%s", inputPath, err))
		return ""
	}
	zap.L().Debug(fmt.Sprintf("Queued job:%s input:%s", job.ID, inputPath))
	return job.ID
}

// Run drains the queue. The first failing job aborts the run; jobs
// already completed keep their outputs.
func (r *Runner) Run(ctx context.Context) error {
	for r.fifo.GetLen() > 0 {
		if err := ctx.Err(); err != nil {
			return err
		}
		job, err := r.fifo.Dequeue()
		if err != nil {
			return err
		}
		if err := r.process(ctx, job); err != nil {
			zap.L().Error(fmt.Sprintf("Job %s failed. Reason:%s", job.ID, err))
			return err
		}
		zap.L().Info(fmt.Sprintf("Job %s done. input:%s", job.ID, job.InputPath))
	}
	return nil
}

func (r *Runner) process(ctx context.Context, job *Job) error {
	in, err := os.Open(job.InputPath)
	if err != nil {
		return err
	}
	defer in.Close()

	translated, err := r.Translator.Translate(in)
	if err != nil {
		return fmt.Errorf("translate %s: %w", job.InputPath, err)
	}
	base := strings.TrimSuffix(job.InputPath, ".qasm")
	if err := writeCircuitFile(base+"_paulis.csv", translated); err != nil {
		return err
	}

	commuted, err := r.Engine.CommuteCliffordsToEnd(ctx, translated)
	if err != nil {
		return fmt.Errorf("commute %s: %w", job.InputPath, err)
	}
	return writeCircuitFile(base+"_commuted.csv", commuted)
}

func writeCircuitFile(path string, circ circuit.Circuit) error {
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	defer out.Close()
	if err := circuit.WriteCircuit(out, circ); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
