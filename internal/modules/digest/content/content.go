package content

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"time"

	"github.com/quoteverse/core/internal/models"
	"github.com/quoteverse/core/internal/pkg/mail"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/renderer/html"
	"gorm.io/gorm"
)

// Item is the read-only projection of a published quote used in a digest.
type Item struct {
	ID          string
	Text        string
	Author      string
	Category    string
	PublishedAt time.Time
}

// Store reads published quotes.
type Store interface {
	// PublishedBetween returns quotes published in [start, end).
	PublishedBetween(ctx context.Context, start, end time.Time) ([]models.QuoteModel, error)
}

// Window returns the trailing window of days ending at now.
func Window(now time.Time, days int) (start, end time.Time) {
	return now.AddDate(0, 0, -days), now
}

// Assembler selects and renders the quotes embedded in a digest.
type Assembler struct {
	store Store
	md    goldmark.Markdown
}

func NewAssembler(store Store) *Assembler {
	return &Assembler{
		store: store,
		md:    goldmark.New(goldmark.WithRendererOptions(html.WithHardWraps())),
	}
}

// Assemble returns the items published in [start, end). An empty slice is a
// valid result.
func (a *Assembler) Assemble(ctx context.Context, start, end time.Time) ([]Item, error) {
	quotes, err := a.store.PublishedBetween(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("load quotes: %w", err)
	}

	items := make([]Item, 0, len(quotes))
	for _, q := range quotes {
		item := Item{ID: q.ID, Text: q.Text, Author: "Unknown"}
		if q.Author != nil && q.Author.Name != "" {
			item.Author = q.Author.Name
		}
		if q.Category != nil {
			item.Category = q.Category.Name
		}
		if q.PublishedAt != nil {
			item.PublishedAt = *q.PublishedAt
		}
		items = append(items, item)
	}
	return items, nil
}

// Render converts quote markdown into email-safe HTML. Raw HTML in the
// source is dropped by goldmark's default renderer.
func (a *Assembler) Render(items []Item) ([]mail.DigestItem, error) {
	out := make([]mail.DigestItem, 0, len(items))
	for _, item := range items {
		var buf bytes.Buffer
		if err := a.md.Convert([]byte(item.Text), &buf); err != nil {
			return nil, fmt.Errorf("render quote %s: %w", item.ID, err)
		}
		out = append(out, mail.DigestItem{
			HTML:     template.HTML(buf.String()),
			Author:   item.Author,
			Category: item.Category,
		})
	}
	return out, nil
}

// GormStore is the gorm-backed Store.
type GormStore struct{ db *gorm.DB }

func NewGormStore(db *gorm.DB) *GormStore { return &GormStore{db: db} }

func (s *GormStore) PublishedBetween(ctx context.Context, start, end time.Time) ([]models.QuoteModel, error) {
	var quotes []models.QuoteModel
	err := s.db.WithContext(ctx).
		Preload("Author").
		Preload("Category").
		Where("is_published = ? AND published_at >= ? AND published_at < ?", true, start, end).
		Order("published_at DESC").
		Find(&quotes).Error
	return quotes, err
}
