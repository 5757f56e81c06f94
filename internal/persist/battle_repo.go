package persist

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/blake2b"
)

// ActionRecord is one resolved action in a finished battle.
type ActionRecord struct {
	Round   int
	Source  string
	Target  string
	Move    string
	Hit     bool
	Crit    bool
	HPPower int
	SPPower int
	Downed  bool
}

// BattleRecord is a finished encounter with its full action log.
type BattleRecord struct {
	Encounter  string
	EnemyName  string
	Outcome    string
	Rounds     int
	Seed       int64
	Formula    string
	StartedAt  time.Time
	FinishedAt time.Time
	Actions    []ActionRecord
}

// Fingerprint hashes everything that determines a replay: encounter, seed,
// formula, outcome and the ordered action log. Timestamps are excluded, so
// re-running a seeded encounter yields the same fingerprint.
func (r *BattleRecord) Fingerprint() [32]byte {
	h, _ := blake2b.New256(nil)
	var buf [8]byte
	str := func(s string) {
		binary.LittleEndian.PutUint64(buf[:], uint64(len(s)))
		h.Write(buf[:])
		h.Write([]byte(s))
	}
	num := func(n int64) {
		binary.LittleEndian.PutUint64(buf[:], uint64(n))
		h.Write(buf[:])
	}
	flag := func(b bool) {
		if b {
			num(1)
		} else {
			num(0)
		}
	}

	str(r.Encounter)
	str(r.Formula)
	str(r.Outcome)
	num(r.Seed)
	num(int64(r.Rounds))
	num(int64(len(r.Actions)))
	for _, a := range r.Actions {
		num(int64(a.Round))
		str(a.Source)
		str(a.Target)
		str(a.Move)
		flag(a.Hit)
		flag(a.Crit)
		num(int64(a.HPPower))
		num(int64(a.SPPower))
		flag(a.Downed)
	}

	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}

type BattleRepo struct {
	db *DB
}

func NewBattleRepo(db *DB) *BattleRepo {
	return &BattleRepo{db: db}
}

// Record stores a finished battle and its actions in one transaction. It
// returns false when an identical replay was already recorded.
func (r *BattleRepo) Record(ctx context.Context, rec *BattleRecord) (bool, error) {
	fp := rec.Fingerprint()

	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("battle begin: %w", err)
	}
	defer tx.Rollback(ctx)

	var id int64
	err = tx.QueryRow(ctx,
		`INSERT INTO battles (fingerprint, encounter, enemy_name, outcome, rounds, seed, formula, started_at, finished_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 ON CONFLICT (fingerprint) DO NOTHING
		 RETURNING id`,
		fp[:], rec.Encounter, rec.EnemyName, rec.Outcome, rec.Rounds, rec.Seed, rec.Formula,
		rec.StartedAt, rec.FinishedAt,
	).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("battle insert: %w", err)
	}

	rows := make([][]any, len(rec.Actions))
	for i, a := range rec.Actions {
		rows[i] = []any{id, i, a.Round, a.Source, a.Target, a.Move, a.Hit, a.Crit, a.HPPower, a.SPPower, a.Downed}
	}
	if _, err := tx.CopyFrom(ctx,
		pgx.Identifier{"battle_actions"},
		[]string{"battle_id", "seq", "round", "source", "target", "move", "hit", "crit", "hp_power", "sp_power", "downed"},
		pgx.CopyFromRows(rows),
	); err != nil {
		return false, fmt.Errorf("battle actions copy: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("battle commit: %w", err)
	}
	return true, nil
}

// Outcomes counts recorded outcomes for an encounter.
func (r *BattleRepo) Outcomes(ctx context.Context, encounter string) (map[string]int, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT outcome, COUNT(*) FROM battles WHERE encounter = $1 GROUP BY outcome`, encounter,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]int)
	for rows.Next() {
		var outcome string
		var n int
		if err := rows.Scan(&outcome, &n); err != nil {
			return nil, err
		}
		out[outcome] = n
	}
	return out, rows.Err()
}
