package sync

import (
	"context"
	"strings"

	"github.com/xelth-com/recoverydesk/internal/models"
	"github.com/xelth-com/recoverydesk/internal/storage"
)

// customerMatches is the directory's identity rule: same phone, or same
// non-empty name ignoring case
func customerMatches(c models.MasterCustomer, name, phone string) bool {
	if c.PhoneNumber == phone {
		return true
	}
	return name != "" && strings.EqualFold(c.Name, name)
}

// upsertCustomer refreshes the directory entry for a job's customer
func (u *unit) upsertCustomer(rec models.HardDiskRecord) error {
	list, err := u.customers()
	if err != nil {
		return err
	}
	now := u.e.timestamp()

	for i := range list {
		if !customerMatches(list[i], rec.CustomerName, rec.PhoneNumber) {
			continue
		}
		c := &list[i]
		c.Name = rec.CustomerName
		c.PhoneNumber = rec.PhoneNumber
		c.Address = rec.CustomerAddress
		c.State = rec.CustomerState
		c.GSTIN = rec.CustomerGSTIN
		c.LastUpdated = now
		return u.put(storage.KeyMasterCustomers, list)
	}

	list = append(list, models.MasterCustomer{
		ID:          u.e.ids.Next(),
		Name:        rec.CustomerName,
		PhoneNumber: rec.PhoneNumber,
		Address:     rec.CustomerAddress,
		State:       rec.CustomerState,
		GSTIN:       rec.CustomerGSTIN,
		CreatedAt:   now,
		LastUpdated: now,
	})
	return u.put(storage.KeyMasterCustomers, list)
}

// GetMasterCustomers lists the customer directory
func (e *Engine) GetMasterCustomers(ctx context.Context) ([]models.MasterCustomer, error) {
	var out []models.MasterCustomer
	err := e.read(ctx, func(u *unit) error {
		var err error
		out, err = u.customers()
		return err
	})
	return out, err
}

// GetMasterCustomerByPhone returns nil when no entry has that phone
func (e *Engine) GetMasterCustomerByPhone(ctx context.Context, phone string) (*models.MasterCustomer, error) {
	list, err := e.GetMasterCustomers(ctx)
	if err != nil {
		return nil, err
	}
	for i := range list {
		if list[i].PhoneNumber == phone {
			return &list[i], nil
		}
	}
	return nil, nil
}

// GetMasterCustomerByName matches case-insensitively and returns nil on a miss
func (e *Engine) GetMasterCustomerByName(ctx context.Context, name string) (*models.MasterCustomer, error) {
	list, err := e.GetMasterCustomers(ctx)
	if err != nil {
		return nil, err
	}
	for i := range list {
		if strings.EqualFold(list[i].Name, name) {
			return &list[i], nil
		}
	}
	return nil, nil
}
