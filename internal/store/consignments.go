// Package store implements persistence for consignment records.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/parceldirect/consign/internal/model"
)

// Sentinel errors returned by store operations.
var (
	// ErrNotFound indicates the requested consignment does not exist.
	ErrNotFound = errors.New("consignment not found")

	// ErrDuplicateNumber indicates a consignment number collided with an
	// existing row. The unique index is the authority on duplicates; the
	// upstream allocator cannot guarantee uniqueness under concurrency.
	ErrDuplicateNumber = errors.New("duplicate consignment number")
)

const columns = `id, account_no, name, addressline1, addressline2,
	addressline3, addressline4, weight, consignment_number, delivery_depot,
	created_at, updated_at`

// Create inserts a new consignment and returns the stored record.
func Create(ctx context.Context, db *sql.DB, c *model.Consignment) (*model.Consignment, error) {
	result, err := db.ExecContext(ctx,
		`INSERT INTO consignments (account_no, name, addressline1, addressline2,
		 addressline3, addressline4, weight, consignment_number, delivery_depot)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.AccountNo, c.Name, c.AddressLine1, nullIfEmpty(c.AddressLine2),
		c.AddressLine3, c.AddressLine4, c.Weight, c.ConsignmentNumber, c.DeliveryDepot,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("number %d: %w", c.ConsignmentNumber, ErrDuplicateNumber)
		}
		return nil, fmt.Errorf("creating consignment: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting consignment id: %w", err)
	}

	return Get(ctx, db, id)
}

// Get returns a consignment by ID.
func Get(ctx context.Context, db *sql.DB, id int64) (*model.Consignment, error) {
	row := db.QueryRowContext(ctx,
		`SELECT `+columns+` FROM consignments WHERE id = ?`, id)
	return scanConsignment(row)
}

// GetByNumber returns a consignment by its consignment number.
func GetByNumber(ctx context.Context, db *sql.DB, number int64) (*model.Consignment, error) {
	row := db.QueryRowContext(ctx,
		`SELECT `+columns+` FROM consignments WHERE consignment_number = ?`, number)
	return scanConsignment(row)
}

// List returns all consignments ordered by ID.
func List(ctx context.Context, db *sql.DB) ([]model.Consignment, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT `+columns+` FROM consignments ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("listing consignments: %w", err)
	}
	defer rows.Close()

	var cons []model.Consignment
	for rows.Next() {
		var c model.Consignment
		var line2 sql.NullString
		if err := rows.Scan(&c.ID, &c.AccountNo, &c.Name, &c.AddressLine1, &line2,
			&c.AddressLine3, &c.AddressLine4, &c.Weight, &c.ConsignmentNumber,
			&c.DeliveryDepot, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning consignment: %w", err)
		}
		c.AddressLine2 = line2.String
		cons = append(cons, c)
	}
	return cons, rows.Err()
}

// NumbersForAccount returns the consignment numbers belonging to an account,
// ascending. Returns ErrNotFound when the account has no consignments.
func NumbersForAccount(ctx context.Context, db *sql.DB, accountNo string) ([]int64, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT consignment_number FROM consignments
		 WHERE account_no = ? ORDER BY consignment_number`, accountNo)
	if err != nil {
		return nil, fmt.Errorf("listing account consignments: %w", err)
	}
	defer rows.Close()

	var numbers []int64
	for rows.Next() {
		var n int64
		if err := rows.Scan(&n); err != nil {
			return nil, fmt.Errorf("scanning consignment number: %w", err)
		}
		numbers = append(numbers, n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(numbers) == 0 {
		return nil, ErrNotFound
	}
	return numbers, nil
}

// Update applies the set fields of a patch to a consignment and returns the
// updated record. The delivery depot is overwritten only when the caller
// passes a non-nil depot, which it must whenever addressline4 changes.
func Update(ctx context.Context, db *sql.DB, id int64, p model.Patch, depot *int) (*model.Consignment, error) {
	var sets []string
	var args []any

	appendSet := func(column string, value any) {
		sets = append(sets, column+" = ?")
		args = append(args, value)
	}

	if p.Name != nil {
		appendSet("name", *p.Name)
	}
	if p.AddressLine1 != nil {
		appendSet("addressline1", *p.AddressLine1)
	}
	if p.AddressLine2 != nil {
		appendSet("addressline2", nullIfEmpty(*p.AddressLine2))
	}
	if p.AddressLine3 != nil {
		appendSet("addressline3", *p.AddressLine3)
	}
	if p.AddressLine4 != nil {
		appendSet("addressline4", *p.AddressLine4)
	}
	if p.Weight != nil {
		appendSet("weight", *p.Weight)
	}
	if depot != nil {
		appendSet("delivery_depot", *depot)
	}

	if len(sets) > 0 {
		sets = append(sets, "updated_at = CURRENT_TIMESTAMP")
		args = append(args, id)

		result, err := db.ExecContext(ctx,
			`UPDATE consignments SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
		if err != nil {
			if isUniqueViolation(err) {
				return nil, ErrDuplicateNumber
			}
			return nil, fmt.Errorf("updating consignment: %w", err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return nil, fmt.Errorf("updating consignment: %w", err)
		}
		if affected == 0 {
			return nil, ErrNotFound
		}
	}

	return Get(ctx, db, id)
}

// Delete removes a consignment. Returns ErrNotFound when absent.
func Delete(ctx context.Context, db *sql.DB, id int64) error {
	result, err := db.ExecContext(ctx, `DELETE FROM consignments WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting consignment: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting consignment: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func scanConsignment(row *sql.Row) (*model.Consignment, error) {
	var c model.Consignment
	var line2 sql.NullString
	err := row.Scan(&c.ID, &c.AccountNo, &c.Name, &c.AddressLine1, &line2,
		&c.AddressLine3, &c.AddressLine4, &c.Weight, &c.ConsignmentNumber,
		&c.DeliveryDepot, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting consignment: %w", err)
	}
	c.AddressLine2 = line2.String
	return &c, nil
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func isUniqueViolation(err error) bool {
	var se *sqlite.Error
	return errors.As(err, &se) && se.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE
}
