package dl

import (
	"sync/atomic"
	"time"

	"github.com/bep/debounce"
	"github.com/jsphweid/mdlfit/logger"
	"github.com/sirupsen/logrus"
)

// substitutions seen since start; reported in bursts so that a sum over a
// large corpus logs once instead of once per term
var (
	nonFinite         int64
	reportedNonFinite int64
	lastNonFinite     atomic.Value
	reportNonFinite   = debounce.New(200 * time.Millisecond)
)

func warnNonFinite(x float64) {
	atomic.AddInt64(&nonFinite, 1)
	lastNonFinite.Store(x)
	reportNonFinite(flushNonFinite)
}

func flushNonFinite() {
	total := atomic.LoadInt64(&nonFinite)
	since := total - atomic.SwapInt64(&reportedNonFinite, total)
	if since <= 0 {
		return
	}
	logger.GetProjectLogger().WithFields(logrus.Fields{
		"count": since,
		"total": total,
		"last":  lastNonFinite.Load(),
	}).Warn("non-finite log2 value substituted by zero")
}

// NonFiniteCount is the number of log2 substitutions performed so far.
func NonFiniteCount() int64 {
	return atomic.LoadInt64(&nonFinite)
}
