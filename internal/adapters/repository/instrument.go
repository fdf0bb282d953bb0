package repository

import (
	"context"
	"time"

	"github.com/okian/bikelog/internal/domain/faults"
	"github.com/okian/bikelog/internal/domain/model"
	"github.com/okian/bikelog/pkg/metrics"
)

// instrumented records latency and outcome of every call on the wrapped Store.
type instrumented struct {
	Store
}

// Instrument wraps s with store metrics.
func Instrument(s Store) Store {
	if _, ok := s.(*instrumented); ok {
		return s
	}
	return &instrumented{Store: s}
}

func (i *instrumented) Append(ctx context.Context, r model.Record) error {
	start := time.Now()
	err := i.Store.Append(ctx, r)
	i.observe("append", start, err)
	if err == nil {
		metrics.RecordAppended()
	}
	return err
}

func (i *instrumented) Records(ctx context.Context) ([]model.Record, error) {
	start := time.Now()
	out, err := i.Store.Records(ctx)
	i.observe("records", start, err)
	return out, err
}

func (i *instrumented) observe(op string, start time.Time, err error) {
	status := metrics.StatusOK
	if err != nil {
		status = metrics.StatusError
		if kind := faults.KindOf(err); kind != nil {
			metrics.RecordErrorByKind("store", kind.Error())
		}
	}
	metrics.RecordStoreOperation(i.Backend(), op, status, float64(time.Since(start).Microseconds())/1000)
}
