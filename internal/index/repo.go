package index

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/starford/ansuz/internal/faq"
	"github.com/starford/ansuz/internal/match"
)

// Replace swaps the entire index contents for the given corpus within a
// transaction. The corpus is immutable between reloads, so a full replace
// is simpler and safer than per-row diffing.
func (db *DB) Replace(c *faq.Corpus) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	if _, err := tx.Exec(`DELETE FROM faq_keywords`); err != nil {
		return fmt.Errorf("index: clear keywords: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM faqs`); err != nil {
		return fmt.Errorf("index: clear faqs: %w", err)
	}

	insFaq, err := tx.Prepare(`
		INSERT INTO faqs (id, pos, question, answer, category, reference, links)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("index: prepare faq insert: %w", err)
	}
	defer insFaq.Close()

	insKw, err := tx.Prepare(`INSERT OR IGNORE INTO faq_keywords (faq_id, keyword) VALUES (?, ?)`)
	if err != nil {
		return fmt.Errorf("index: prepare keyword insert: %w", err)
	}
	defer insKw.Close()

	for pos, r := range c.Records() {
		linksJSON, _ := json.Marshal(r.Links)
		if _, err := insFaq.Exec(r.ID, pos, r.Question, r.Answer, string(r.Category), r.Reference, string(linksJSON)); err != nil {
			return fmt.Errorf("index: insert faq %s: %w", r.ID, err)
		}
		for _, k := range r.Keywords {
			if _, err := insKw.Exec(r.ID, k); err != nil {
				return fmt.Errorf("index: insert keyword: %w", err)
			}
		}
	}

	return tx.Commit()
}

// Search runs the browse-rule substring search: the normalized query must
// appear inside the lowercased question, answer, or a keyword. instr() is
// used instead of LIKE so wildcard characters in the query stay literal.
// Results preserve corpus insertion order.
func (db *DB) Search(query string, category faq.Category, limit int) ([]faq.Record, error) {
	q := match.Normalize(query)
	if q == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = 50
	}

	cat := string(category)
	rows, err := db.conn.Query(`
		SELECT f.id, f.question, f.answer, f.category, f.reference, f.links
		FROM faqs f
		WHERE (? = 'All' OR f.category = ?)
		  AND (instr(lower(f.question), ?) > 0
		       OR instr(lower(f.answer), ?) > 0
		       OR EXISTS (
		             SELECT 1 FROM faq_keywords k
		             WHERE k.faq_id = f.id AND instr(k.keyword, ?) > 0
		          ))
		ORDER BY f.pos
		LIMIT ?
	`, cat, cat, q, q, q, limit)
	if err != nil {
		return nil, fmt.Errorf("index: search: %w", err)
	}
	defer rows.Close()

	return db.scanRecords(rows)
}

// ListByCategory returns records for a category (or all for the sentinel)
// in corpus order, with limit/offset pagination.
func (db *DB) ListByCategory(category faq.Category, limit, offset int) ([]faq.Record, int, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	cat := string(category)
	var total int
	if err := db.conn.QueryRow(
		`SELECT count(*) FROM faqs WHERE (? = 'All' OR category = ?)`, cat, cat,
	).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("index: count: %w", err)
	}

	rows, err := db.conn.Query(`
		SELECT f.id, f.question, f.answer, f.category, f.reference, f.links
		FROM faqs f
		WHERE (? = 'All' OR f.category = ?)
		ORDER BY f.pos
		LIMIT ? OFFSET ?
	`, cat, cat, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("index: list: %w", err)
	}
	defer rows.Close()

	recs, err := db.scanRecords(rows)
	if err != nil {
		return nil, 0, err
	}
	return recs, total, nil
}

// Get returns one record by id, or nil when absent.
func (db *DB) Get(id string) (*faq.Record, error) {
	row := db.conn.QueryRow(`
		SELECT id, question, answer, category, reference, links
		FROM faqs WHERE id = ?
	`, id)

	r, err := scanRecord(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("index: get %s: %w", id, err)
	}
	if err := db.attachKeywords(&r); err != nil {
		return nil, err
	}
	return &r, nil
}

// Count returns the number of indexed records.
func (db *DB) Count() (int, error) {
	var n int
	if err := db.conn.QueryRow(`SELECT count(*) FROM faqs`).Scan(&n); err != nil {
		return 0, fmt.Errorf("index: count: %w", err)
	}
	return n, nil
}

func (db *DB) scanRecords(rows *sql.Rows) ([]faq.Record, error) {
	var out []faq.Record
	for rows.Next() {
		r, err := scanRecord(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("index: scan: %w", err)
		}
		if err := db.attachKeywords(&r); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func scanRecord(scan func(...any) error) (faq.Record, error) {
	var r faq.Record
	var category, linksJSON string
	if err := scan(&r.ID, &r.Question, &r.Answer, &category, &r.Reference, &linksJSON); err != nil {
		return faq.Record{}, err
	}
	r.Category = faq.Category(category)
	if err := json.Unmarshal([]byte(linksJSON), &r.Links); err != nil {
		return faq.Record{}, fmt.Errorf("decode links: %w", err)
	}
	return r, nil
}

func (db *DB) attachKeywords(r *faq.Record) error {
	rows, err := db.conn.Query(`SELECT keyword FROM faq_keywords WHERE faq_id = ? ORDER BY keyword`, r.ID)
	if err != nil {
		return fmt.Errorf("index: keywords for %s: %w", r.ID, err)
	}
	defer rows.Close()
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return err
		}
		r.Keywords = append(r.Keywords, k)
	}
	return rows.Err()
}
