// Package scope restricts every read and write of tenant data to the rows a
// doctor owns. Handlers and services never build an ownership predicate by
// hand; they go through Tenant, Find, Verify and the child variants here, so
// a row owned by someone else and a row that does not exist look the same.
package scope

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// ErrNotFound matches every NotFoundError.
var ErrNotFound = errors.New("not found")

// NotFoundError is returned both for missing rows and for rows owned by
// another doctor.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with ID %s not found", e.Resource, e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// Descriptor names a table whose rows carry their owning doctor directly.
type Descriptor struct {
	Resource    string
	Table       string
	OwnerColumn string
}

func (d Descriptor) col(name string) string {
	return d.Table + "." + name
}

// Child names a table whose rows are owned through a parent row.
type Child struct {
	Resource     string
	Table        string
	ParentColumn string
	Parent       Descriptor
}

func (c Child) col(name string) string {
	return c.Table + "." + name
}

var (
	Patients       = Descriptor{Resource: "Patient", Table: "patients", OwnerColumn: "doctor_id"}
	Appointments   = Descriptor{Resource: "Appointment", Table: "appointments", OwnerColumn: "doctor_id"}
	MedicalRecords = Descriptor{Resource: "Medical record", Table: "medical_records", OwnerColumn: "doctor_id"}
	Notifications  = Descriptor{Resource: "Notification", Table: "notifications", OwnerColumn: "doctor_id"}

	MedicalRecordFiles = Child{Resource: "File", Table: "medical_record_files", ParentColumn: "medical_record_id", Parent: MedicalRecords}
)

// Option adjusts a query, typically with Preload, Select or a filter.
type Option func(*gorm.DB) *gorm.DB

// Apply runs opts over q in order.
func Apply(q *gorm.DB, opts ...Option) *gorm.DB {
	for _, opt := range opts {
		if opt != nil {
			q = opt(q)
		}
	}
	return q
}

// When adds an AND condition only if cond holds.
func When(cond bool, query string, args ...interface{}) Option {
	if !cond {
		return nil
	}
	return func(q *gorm.DB) *gorm.DB {
		return q.Where(query, args...)
	}
}

// Tenant returns db restricted to rows of d owned by doctorID. Callers chain
// further conditions onto the result; the ownership predicate is always the
// first one.
func Tenant(db *gorm.DB, d Descriptor, doctorID string) *gorm.DB {
	return db.Where(d.col(d.OwnerColumn)+" = ?", doctorID)
}

// Find loads the row of d with the given id in a single query that also
// requires doctorID to own it.
func Find[T any](ctx context.Context, db *gorm.DB, d Descriptor, id, doctorID string, opts ...Option) (*T, error) {
	var out T
	q := Tenant(db.WithContext(ctx), d, doctorID).Where(d.col("id")+" = ?", id)
	err := Apply(q, opts...).Take(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &NotFoundError{Resource: d.Resource, ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", d.Table, err)
	}
	return &out, nil
}

// Verify checks that doctorID owns the row of d with the given id without
// loading it.
func Verify(ctx context.Context, db *gorm.DB, d Descriptor, id, doctorID string) error {
	var row struct{ ID string }
	err := Tenant(db.WithContext(ctx).Table(d.Table), d, doctorID).
		Where(d.col("id")+" = ?", id).
		Select(d.col("id")).
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &NotFoundError{Resource: d.Resource, ID: id}
	}
	if err != nil {
		return fmt.Errorf("verify %s: %w", d.Table, err)
	}
	return nil
}

// Children verifies the parent and returns db restricted to its children.
func Children(ctx context.Context, db *gorm.DB, c Child, parentID, doctorID string) (*gorm.DB, error) {
	if err := Verify(ctx, db, c.Parent, parentID, doctorID); err != nil {
		return nil, err
	}
	return db.WithContext(ctx).Where(c.col(c.ParentColumn)+" = ?", parentID), nil
}

// FindChild loads one child row after checking that doctorID owns its parent.
// A child that exists under a different parent is reported as not found.
func FindChild[T any](ctx context.Context, db *gorm.DB, c Child, parentID, id, doctorID string, opts ...Option) (*T, error) {
	q, err := Children(ctx, db, c, parentID, doctorID)
	if err != nil {
		return nil, err
	}
	var out T
	err = Apply(q.Where(c.col("id")+" = ?", id), opts...).Take(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &NotFoundError{Resource: c.Resource, ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", c.Table, err)
	}
	return &out, nil
}
