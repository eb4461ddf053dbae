// Package sloghooks implements webstore.Hooks by logging through log/slog,
// with sampling for the noisy events and key redaction.
package sloghooks

import (
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"sync/atomic"

	"github.com/unkn0wn-root/webstore"
)

type Options struct {
	// Sampling to avoid floods; 0/1 = log all.
	ExpiredEvery  uint64
	RejectedEvery uint64
	// Optional key redactor. Defaults to SHA-256 prefix.
	Redact func(string) string
}

type Hooks struct {
	l    *slog.Logger
	opts Options

	expiredCtr  atomic.Uint64
	rejectedCtr atomic.Uint64
}

var _ webstore.Hooks = (*Hooks)(nil)

func New(l *slog.Logger, opts Options) *Hooks {
	return &Hooks{l: l, opts: opts}
}

func (h *Hooks) redact(k string) string {
	if h.opts.Redact != nil {
		return h.opts.Redact(k)
	}
	sum := sha256.Sum256([]byte(k))
	return hex.EncodeToString(sum[:8])
}

func sample(n uint64, ctr *atomic.Uint64) bool {
	if n == 0 || n == 1 {
		return true
	}
	return ctr.Add(1)%n == 0
}

func (h *Hooks) ProbeResult(store string, supported bool) {
	if h.l == nil {
		return
	}
	if supported {
		h.l.Debug("webstore.probe", "store", store, "supported", true)
		return
	}
	h.l.Warn("webstore.probe", "store", store, "supported", false)
}

func (h *Hooks) ExpiredOnRead(storageKey string) {
	if h.l == nil || !sample(h.opts.ExpiredEvery, &h.expiredCtr) {
		return
	}
	h.l.Debug("webstore.expired_on_read",
		"key", h.redact(storageKey))
}

func (h *Hooks) QuotaReclaim(store string, removed int, retryErr error) {
	if h.l == nil {
		return
	}
	if retryErr != nil {
		h.l.Error("webstore.quota_reclaim",
			"store", store,
			"removed", removed,
			"retry_err", retryErr)
		return
	}
	h.l.Info("webstore.quota_reclaim",
		"store", store,
		"removed", removed)
}

func (h *Hooks) SetRejected(storageKey, reason string) {
	if h.l == nil || !sample(h.opts.RejectedEvery, &h.rejectedCtr) {
		return
	}
	h.l.Warn("webstore.set_rejected",
		"key", h.redact(storageKey),
		"reason", reason)
}

func (h *Hooks) RogueSwept(store string, count int) {
	if h.l == nil {
		return
	}
	h.l.Info("webstore.rogue_swept",
		"store", store,
		"count", count)
}
