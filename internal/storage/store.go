// Package storage provides the key/value backends that hold the shop's
// collections. Every value is a JSON document stored under a fixed key.
package storage

import (
	"context"
	"errors"
	"fmt"
)

// Keys of the persisted collections
const (
	KeyHardDiskRecords    = "hardDiskRecords"
	KeyInwardRecords      = "inwardRecords"
	KeyOutwardRecords     = "outwardRecords"
	KeyInvoiceCounter     = "invoiceCounter"
	KeyJobCounter         = "jobCounter"
	KeyCompanyDetails     = "companyDetails"
	KeyTermsTemplates     = "termsTemplates"
	KeyGeneratedInvoices  = "generatedInvoices"
	KeyGeneratedEstimates = "generatedEstimates"
	KeyAuthPassword       = "authPassword"
	KeyMasterCustomers    = "masterCustomers"
	KeyBackupJobData      = "backupJobData"
)

// AllKeys lists every key the application writes
var AllKeys = []string{
	KeyHardDiskRecords,
	KeyInwardRecords,
	KeyOutwardRecords,
	KeyInvoiceCounter,
	KeyJobCounter,
	KeyCompanyDetails,
	KeyTermsTemplates,
	KeyGeneratedInvoices,
	KeyGeneratedEstimates,
	KeyAuthPassword,
	KeyMasterCustomers,
	KeyBackupJobData,
}

// ErrInvalidKey is returned for empty keys
var ErrInvalidKey = errors.New("storage: empty key")

// Store is a synchronous key/value store
type Store interface {
	// Get returns the value and whether the key was present
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// Op is a single buffered write. A nil Value deletes the key.
type Op struct {
	Key   string
	Value []byte
}

// IsDelete reports whether the op removes its key
func (o Op) IsDelete() bool {
	return o.Value == nil
}

// Batcher is implemented by stores that can apply several writes atomically
type Batcher interface {
	Apply(ctx context.Context, ops []Op) error
}

// Apply writes ops to s. Stores implementing Batcher apply them atomically,
// other stores get them one by one in order.
func Apply(ctx context.Context, s Store, ops []Op) error {
	if len(ops) == 0 {
		return nil
	}
	for _, op := range ops {
		if op.Key == "" {
			return ErrInvalidKey
		}
	}
	if b, ok := s.(Batcher); ok {
		return b.Apply(ctx, ops)
	}
	for _, op := range ops {
		var err error
		if op.IsDelete() {
			err = s.Delete(ctx, op.Key)
		} else {
			err = s.Set(ctx, op.Key, op.Value)
		}
		if err != nil {
			return fmt.Errorf("apply %s: %w", op.Key, err)
		}
	}
	return nil
}
