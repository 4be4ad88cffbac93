package rdbms

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/abys/geosync/constants"
	"github.com/abys/geosync/helper"
	"github.com/abys/geosync/logger"
	"github.com/abys/geosync/rdbms/shared"
)

const (
	sqlUserSequences = `select sequence_name, min_value, increment_by from user_sequences
where instr(sequence_name, :1) > 0 order by sequence_name`
	sqlAllSequences = `select sequence_name, min_value, increment_by from all_sequences
where sequence_owner = :1 and instr(sequence_name, :2) > 0 order by sequence_name`
)

// Sequence describes a catalog sequence and the values it is recreated with.
type Sequence struct {
	Name        string
	MinValue    int64
	IncrementBy int64
}

// TruncateResult reports what TruncateTable did besides removing rows.
type TruncateResult struct {
	Sequence *Sequence // nil when no sequence matched the table name
}

// TruncateTable removes all rows from t and resets the sequence chosen by FindTableSequence
// back to its minimum value, then commits.
// Pre: t exists. Post: t is empty; the sequence, if any, starts again at min_value.
// A missing sequence is not an error.
func TruncateTable(ctx context.Context, log logger.Logger, db shared.Connector, t SchemaTable) (*TruncateResult, error) {
	if _, err := db.ExecContext(ctx, "truncate table "+t.String()); err != nil {
		return nil, fmt.Errorf("error truncating table %v: %w", t, err)
	}
	log.Info("truncated table ", t)
	result := &TruncateResult{}
	seq, err := FindTableSequence(ctx, db, t)
	if err != nil {
		return nil, err
	}
	if seq == nil {
		log.Info("no sequence found for table ", t, "; skipping sequence reset")
	} else {
		if err := ResetSequence(ctx, log, db, t, *seq); err != nil {
			return nil, err
		}
		result.Sequence = seq
	}
	if _, err := db.ExecContext(ctx, "commit"); err != nil {
		return nil, fmt.Errorf("error committing truncate of %v: %w", t, err)
	}
	return result, nil
}

// FindTableSequence returns the sequence that best matches the table name among those whose
// name contains it. <T>_SEQ, SEQ_<T> and <T> win over other matches, then the shortest name,
// then the first by name. It returns nil, nil when there is no match.
func FindTableSequence(ctx context.Context, db shared.Connector, t SchemaTable) (*Sequence, error) {
	var found []Sequence
	fn := func(scan func(dest ...interface{}) error) error {
		s := Sequence{}
		if err := scan(&s.Name, &s.MinValue, &s.IncrementBy); err != nil {
			return err
		}
		found = append(found, s)
		return nil
	}
	var err error
	if schema := t.CatalogSchema(); schema != "" {
		err = QueryEach(ctx, db, sqlAllSequences, fn, schema, t.CatalogTable())
	} else {
		err = QueryEach(ctx, db, sqlUserSequences, fn, t.CatalogTable())
	}
	if err != nil {
		return nil, fmt.Errorf("error looking up sequences for table %v: %w", t, err)
	}
	if len(found) == 0 {
		return nil, nil
	}
	rankSequences(found, t.CatalogTable())
	return &found[0], nil
}

func rankSequences(seqs []Sequence, table string) {
	conventional := func(name string) bool {
		return name == table+"_SEQ" || name == "SEQ_"+table || name == table
	}
	sort.SliceStable(seqs, func(i, j int) bool {
		a, b := seqs[i].Name, seqs[j].Name
		if ca, cb := conventional(a), conventional(b); ca != cb {
			return ca
		}
		if len(a) != len(b) {
			return len(a) < len(b)
		}
		return a < b
	})
}

// ResetSequence drops and recreates seq so that its next value is seq.MinValue.
// The sequence name comes from the catalog and is always quoted in the DDL.
func ResetSequence(ctx context.Context, log logger.Logger, db shared.Connector, t SchemaTable, seq Sequence) error {
	quoted := `"` + seq.Name + `"`
	if err := helper.ValidateIdentifier(quoted); err != nil {
		return fmt.Errorf("refusing to reset sequence: %w", err)
	}
	if seq.IncrementBy == 0 {
		seq.IncrementBy = 1
	}
	name := t.Qualify(quoted)
	if _, err := db.ExecContext(ctx, "drop sequence "+name); err != nil {
		if !strings.Contains(err.Error(), constants.OraErrSequenceDoesNotExist) {
			return fmt.Errorf("error dropping sequence %v: %w", name, err)
		}
		log.Warn("sequence ", name, " disappeared before it could be dropped")
	}
	ddl := fmt.Sprintf("create sequence %v start with %v increment by %v",
		name, strconv.FormatInt(seq.MinValue, 10), strconv.FormatInt(seq.IncrementBy, 10))
	if _, err := db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("error recreating sequence %v: %w", name, err)
	}
	log.Info("reset sequence ", name, " to start with ", seq.MinValue)
	return nil
}
