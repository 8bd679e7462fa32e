package errors

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
)

// Report is the operator view of an error: the whole cause chain plus
// whatever the database driver said.
type Report struct {
	Message string
	Code    Code
	Chain   []string
	DB      *DBDetail
}

// DBDetail is filled from pgx, lib/pq or sqlite3 errors.
type DBDetail struct {
	Engine     string
	Code       string
	Constraint string
	Table      string
	Column     string
	Detail     string
	Message    string
}

func Dump(err error) Report {
	if err == nil {
		return Report{}
	}
	r := Report{Message: err.Error(), DB: dbDetail(err)}
	if typed := As(err); typed != nil {
		r.Code = typed.code
	}
	for e := err; e != nil; e = errors.Unwrap(e) {
		r.Chain = append(r.Chain, fmt.Sprintf("%T: %v", e, e))
	}
	return r
}

// Fields flattens the report for structured logs.
func (r Report) Fields() map[string]any {
	fields := map[string]any{
		"error":       r.Message,
		"error_chain": r.Chain,
	}
	if r.Code != "" {
		fields["error_code"] = r.Code
	}
	if db := r.DB; db != nil {
		fields["db_engine"] = db.Engine
		fields["db_code"] = db.Code
		for k, v := range map[string]string{
			"db_constraint": db.Constraint,
			"db_table":      db.Table,
			"db_column":     db.Column,
			"db_detail":     db.Detail,
			"db_message":    db.Message,
		} {
			if v != "" {
				fields[k] = v
			}
		}
	}
	return fields
}

func dbDetail(err error) *DBDetail {
	var pgxErr *pgconn.PgError
	if errors.As(err, &pgxErr) {
		return &DBDetail{
			Engine:     "postgres",
			Code:       pgxErr.Code,
			Constraint: pgxErr.ConstraintName,
			Table:      pgxErr.TableName,
			Column:     pgxErr.ColumnName,
			Detail:     pgxErr.Detail,
			Message:    pgxErr.Message,
		}
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return &DBDetail{
			Engine:     "postgres",
			Code:       string(pqErr.Code),
			Constraint: pqErr.Constraint,
			Table:      pqErr.Table,
			Column:     pqErr.Column,
			Detail:     pqErr.Detail,
			Message:    pqErr.Message,
		}
	}
	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		return &DBDetail{
			Engine:  "sqlite",
			Code:    liteErr.ExtendedCode.Error(),
			Message: liteErr.Error(),
		}
	}
	return nil
}
