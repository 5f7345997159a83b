package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/listenupapp/bookrec/internal/domain"
	"github.com/listenupapp/bookrec/internal/errors"
)

// ReplaceCatalog swaps the stored snapshot for a new one in a single
// transaction. Books are stored in slice order; vocabulary labels are stored
// with their column index.
func (s *Store) ReplaceCatalog(ctx context.Context, info domain.CatalogInfo, books []domain.Book, vocabulary []string) error {
	if len(books) == 0 {
		return errors.Load("refusing to store an empty catalog")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, stmt := range []string{
		"DELETE FROM book_genres",
		"DELETE FROM books",
		"DELETE FROM vocabulary",
		"DELETE FROM catalog_info",
	} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("clear catalog: %w", err)
		}
	}

	bookStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO books (id, position, title, author, avg_rating, num_ratings, url)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer bookStmt.Close()

	genreStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO book_genres (book_id, ordinal, label) VALUES (?, ?, ?)`)
	if err != nil {
		return err
	}
	defer genreStmt.Close()

	for i := range books {
		b := &books[i]
		if _, err := bookStmt.ExecContext(ctx,
			b.ID, i, b.Title, b.Author, b.AvgRating, b.NumRatings, nullString(b.URL),
		); err != nil {
			return fmt.Errorf("insert book %s: %w", b.ID, err)
		}
		for ord, label := range b.Genres {
			if _, err := genreStmt.ExecContext(ctx, b.ID, ord, label); err != nil {
				return fmt.Errorf("insert genre for %s: %w", b.ID, err)
			}
		}
	}

	for col, label := range vocabulary {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO vocabulary (col, label) VALUES (?, ?)", col, label,
		); err != nil {
			return fmt.Errorf("insert vocabulary label %q: %w", label, err)
		}
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO catalog_info (id, version, source, book_count, genre_count, imported_at)
		VALUES (1, ?, ?, ?, ?, ?)`,
		info.Version, info.Source, len(books), len(vocabulary), formatTime(info.ImportedAt),
	); err != nil {
		return fmt.Errorf("insert catalog info: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	s.logger.Info("catalog stored",
		"version", info.Version,
		"books", len(books),
		"genres", len(vocabulary),
	)
	return nil
}

// CatalogInfo returns the metadata of the stored snapshot.
// Returns a load error when nothing has been imported yet.
func (s *Store) CatalogInfo(ctx context.Context) (*domain.CatalogInfo, error) {
	var (
		info       domain.CatalogInfo
		importedAt string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT version, source, book_count, genre_count, imported_at
		FROM catalog_info WHERE id = 1`,
	).Scan(&info.Version, &info.Source, &info.BookCount, &info.GenreCount, &importedAt)
	if err == sql.ErrNoRows {
		return nil, errors.Load("no catalog has been imported")
	}
	if err != nil {
		return nil, err
	}

	info.ImportedAt, err = parseTime(importedAt)
	if err != nil {
		return nil, fmt.Errorf("parse imported_at: %w", err)
	}
	return &info, nil
}

// ListBooks returns every stored book in catalog row order, genres included.
func (s *Store) ListBooks(ctx context.Context) ([]domain.Book, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, position, title, author, avg_rating, num_ratings, url
		FROM books ORDER BY position`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var books []domain.Book
	byID := make(map[domain.BookID]int)
	for rows.Next() {
		var (
			b   domain.Book
			url sql.NullString
		)
		if err := rows.Scan(&b.ID, &b.Position, &b.Title, &b.Author, &b.AvgRating, &b.NumRatings, &url); err != nil {
			return nil, err
		}
		b.URL = url.String
		b.Genres = []string{}
		byID[b.ID] = len(books)
		books = append(books, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	genreRows, err := s.db.QueryContext(ctx,
		"SELECT book_id, label FROM book_genres ORDER BY book_id, ordinal")
	if err != nil {
		return nil, err
	}
	defer genreRows.Close()

	for genreRows.Next() {
		var (
			bookID domain.BookID
			label  string
		)
		if err := genreRows.Scan(&bookID, &label); err != nil {
			return nil, err
		}
		if i, ok := byID[bookID]; ok {
			books[i].Genres = append(books[i].Genres, label)
		}
	}
	return books, genreRows.Err()
}

// LoadVocabulary returns the stored vocabulary in column order.
func (s *Store) LoadVocabulary(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT label FROM vocabulary ORDER BY col")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var labels []string
	for rows.Next() {
		var l string
		if err := rows.Scan(&l); err != nil {
			return nil, err
		}
		labels = append(labels, l)
	}
	return labels, rows.Err()
}

// GenreCounts returns how many books carry each genre label.
func (s *Store) GenreCounts(ctx context.Context) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT label, COUNT(DISTINCT book_id) FROM book_genres GROUP BY label")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var (
			label string
			n     int
		)
		if err := rows.Scan(&label, &n); err != nil {
			return nil, err
		}
		counts[label] = n
	}
	return counts, rows.Err()
}
