package txbuilder

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"time"

	"github.com/lightningnetwork/lnd/fn/v2"
	"go.uber.org/zap"

	"github.com/bitfsorg/libgreen-go/bridge"
	"github.com/bitfsorg/libgreen-go/process"
	"github.com/bitfsorg/libgreen-go/staging"
)

// Registry records staged artifacts so that abandoned ones can be swept.
// *staging.Registry implements it.
type Registry interface {
	Register(path string, createdAt time.Time) error
	SetStage(path, stage string) error
	Unregister(path string) error
}

var _ Registry = (*staging.Registry)(nil)

type settings struct {
	dir      string
	retain   bool
	registry Registry
	logger   *zap.Logger
	timeout  time.Duration
}

// Option configures a Builder.
type Option func(*settings)

// WithDir sets the directory artifacts are written to. The default is the
// system temporary directory.
func WithDir(dir string) Option {
	return func(s *settings) { s.dir = dir }
}

// WithRetain keeps the artifact on disk after a successful broadcast.
func WithRetain(retain bool) Option {
	return func(s *settings) { s.retain = retain }
}

// WithRegistry records every artifact in reg.
func WithRegistry(reg Registry) Option {
	return func(s *settings) { s.registry = reg }
}

// WithLogger sets the logger for stage transitions.
func WithLogger(l *zap.Logger) Option {
	return func(s *settings) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithTimeout sets the timeout of the sign and send invocations. Zero keeps
// the executor's default.
func WithTimeout(d time.Duration) Option {
	return func(s *settings) { s.timeout = d }
}

// Builder assembles a transaction draft and drives it through dump, sign and
// broadcast. It is a value: every operation returns a new Builder and leaves
// the receiver untouched, so a failed step can be retried on the same value.
// Operations called from the wrong stage fail with a state violation, as do
// sign and broadcast on an older value whose artifact has since been cleaned
// up. The zero Builder collects a draft but cannot sign without an executor.
type Builder struct {
	exec  process.Executor
	cfg   *settings
	stage Stage
	draft Draft

	path string
	json string
	txid string
}

func defaultSettings() *settings {
	return &settings{logger: zap.NewNop()}
}

// New returns an empty builder in the Collecting stage.
func New(exec process.Executor, opts ...Option) Builder {
	cfg := defaultSettings()
	for _, opt := range opts {
		opt(cfg)
	}
	return Builder{exec: exec, cfg: cfg, stage: Collecting}
}

// conf returns the builder's settings. The zero Builder uses the defaults.
func (b Builder) conf() *settings {
	if b.cfg == nil {
		return defaultSettings()
	}
	return b.cfg
}

// Stage returns the current stage.
func (b Builder) Stage() Stage { return b.stage }

// Draft returns a copy of the accumulated draft.
func (b Builder) Draft() Draft { return b.draft.clone() }

// JSON returns the serialized draft once the builder has been dumped.
func (b Builder) JSON() fn.Option[string] { return optional(b.json) }

// TempPath returns the artifact path once the builder has been dumped.
func (b Builder) TempPath() fn.Option[string] { return optional(b.path) }

// TxID returns the transaction id once the builder has been broadcast.
func (b Builder) TxID() fn.Option[string] { return optional(b.txid) }

func optional(s string) fn.Option[string] {
	if s == "" {
		return fn.None[string]()
	}
	return fn.Some(s)
}

func (b Builder) require(op string, want Stage) error {
	if b.stage != want {
		return bridge.StateViolation(op, want.String(), b.stage.String())
	}
	return nil
}

func (b Builder) clone() Builder {
	next := b
	next.draft = b.draft.clone()
	return next
}

// ---------------------------------------------------------------------------
// Collecting
// ---------------------------------------------------------------------------

// AddOutput appends a payment of satoshi to address.
func (b Builder) AddOutput(address string, satoshi uint64) (Builder, error) {
	const op = "add output"
	if err := b.require(op, Collecting); err != nil {
		return b, err
	}
	if address == "" {
		return b, bridge.InvalidArgument(op, ErrEmptyAddress.Error())
	}
	if satoshi == 0 {
		return b, bridge.InvalidArgument(op, ErrZeroAmount.Error())
	}

	next := b.clone()
	next.draft.Outputs = append(next.draft.Outputs, Output{Address: address, Satoshi: satoshi})
	return next, nil
}

// AddInput appends an input reference. The reference is passed to the
// wallet executable as given.
func (b Builder) AddInput(ref string) (Builder, error) {
	const op = "add input"
	if err := b.require(op, Collecting); err != nil {
		return b, err
	}
	if ref == "" {
		return b, bridge.InvalidArgument(op, ErrEmptyInput.Error())
	}

	next := b.clone()
	next.draft.Inputs = append(next.draft.Inputs, ref)
	return next, nil
}

// SetFeeRate sets the fee rate in sat/vbyte. The last call wins.
func (b Builder) SetFeeRate(rate uint64) (Builder, error) {
	const op = "set fee rate"
	if err := b.require(op, Collecting); err != nil {
		return b, err
	}
	if rate == 0 {
		return b, bridge.InvalidArgument(op, ErrZeroFeeRate.Error())
	}

	next := b.clone()
	next.draft.FeeRate = &rate
	return next, nil
}

// SetSubaccount selects the subaccount to spend from. The last call wins.
func (b Builder) SetSubaccount(id uint32) (Builder, error) {
	if err := b.require("set subaccount", Collecting); err != nil {
		return b, err
	}
	next := b.clone()
	next.draft.Subaccount = &id
	return next, nil
}

// SetMemo attaches a wallet-local memo. The last call wins.
func (b Builder) SetMemo(memo string) (Builder, error) {
	if err := b.require("set memo", Collecting); err != nil {
		return b, err
	}
	next := b.clone()
	next.draft.Memo = memo
	return next, nil
}

// ---------------------------------------------------------------------------
// Pipeline
// ---------------------------------------------------------------------------

// Dump writes the draft to a new artifact and moves to Staged.
func (b Builder) Dump(ctx context.Context) (Builder, error) {
	const op = "dump"
	if err := b.require(op, Collecting); err != nil {
		return b, err
	}
	if err := ctx.Err(); err != nil {
		return b, bridge.FromContext(op, err)
	}

	data, err := json.Marshal(b.draft)
	if err != nil {
		return b, bridge.Unexpected(op, "serialize draft", err)
	}
	path, err := writeArtifact(b.conf().dir, data)
	if err != nil {
		return b, bridge.IoError(op, err)
	}

	if reg := b.conf().registry; reg != nil {
		if err := reg.Register(path, time.Now()); err != nil {
			_ = os.Remove(path)
			return b, bridge.IoError(op, err)
		}
	}

	next := b.clone()
	next.stage = Staged
	next.path = path
	next.json = string(data)
	b.conf().logger.Info("transaction staged",
		zap.String("path", path),
		zap.Int("outputs", len(b.draft.Outputs)),
		zap.Int("inputs", len(b.draft.Inputs)),
		zap.Uint64("total_out", b.draft.TotalOut()))
	return next, nil
}

// Sign has the wallet executable sign the artifact and moves to Signed.
// On failure the builder stays Staged and Sign may be called again.
func (b Builder) Sign(ctx context.Context) (Builder, error) {
	const op = "sign"
	if err := b.require(op, Staged); err != nil {
		return b, err
	}
	if _, err := b.runLocked(ctx, op, "sign"); err != nil {
		return b, err
	}

	next := b.clone()
	next.stage = Signed
	b.advanced(Signed)
	return next, nil
}

// Broadcast has the wallet executable send the signed artifact and moves to
// Broadcast, recording the reported transaction id. A successful exit always
// advances, even when the id does not look like a txid. On failure the
// builder stays Signed. Unless retained, the artifact is removed afterwards.
func (b Builder) Broadcast(ctx context.Context) (Builder, error) {
	const op = "broadcast"
	if err := b.require(op, Signed); err != nil {
		return b, err
	}
	out, err := b.runLocked(ctx, op, "send")
	if err != nil {
		return b, err
	}
	txid, err := bridge.DecodeTxID("tx send", out)
	if err != nil {
		b.conf().logger.Warn("unrecognised transaction id in broadcast output",
			zap.String("path", b.path), zap.String("txid", txid), zap.Error(err))
	}

	next := b.clone()
	next.stage = Broadcast
	next.txid = txid
	b.advanced(Broadcast, zap.String("txid", txid))

	if !b.conf().retain {
		if err := next.Cleanup(); err != nil {
			// The record stays registered for a later sweep.
			b.conf().logger.Warn("artifact cleanup after broadcast failed",
				zap.String("path", b.path), zap.Error(err))
		}
	}
	return next, nil
}

// Send is an alias of Broadcast.
func (b Builder) Send(ctx context.Context) (Builder, error) {
	return b.Broadcast(ctx)
}

// Cleanup removes the artifact and its lock file and drops its registry
// record. It is idempotent and a no-op before Dump.
func (b Builder) Cleanup() error {
	if b.path == "" {
		return nil
	}
	if err := staging.RemoveArtifact(b.path); err != nil {
		return bridge.IoError("cleanup", err)
	}
	if reg := b.conf().registry; reg != nil {
		if err := reg.Unregister(b.path); err != nil {
			return bridge.IoError("cleanup", err)
		}
	}
	return nil
}

// runLocked invokes `tx <verb> <path>` while holding the artifact lock.
func (b Builder) runLocked(ctx context.Context, op, verb string) (string, error) {
	if b.exec == nil {
		return "", bridge.InvalidArgument(op, "builder has no executor")
	}
	if _, err := os.Stat(b.path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", bridge.StateViolation(op, b.stage.String(), "cleaned up")
		}
		return "", bridge.IoError(op, err)
	}

	lock, err := lockArtifact(ctx, b.path)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
			return "", bridge.FromContext(op, err)
		}
		return "", bridge.IoError(op, err)
	}
	defer releaseLock(lock)

	return b.exec.Run(ctx, process.Invocation{
		Args:    []string{"tx", verb, b.path},
		Timeout: b.conf().timeout,
	})
}

func (b Builder) advanced(to Stage, fields ...zap.Field) {
	if reg := b.conf().registry; reg != nil {
		if err := reg.SetStage(b.path, to.String()); err != nil {
			b.conf().logger.Warn("artifact registry update failed",
				zap.String("path", b.path), zap.Error(err))
		}
	}
	fields = append(fields, zap.String("path", b.path), zap.Stringer("stage", to))
	b.conf().logger.Info("transaction advanced", fields...)
}
