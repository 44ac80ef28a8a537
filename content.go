package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

/* ─── Strapi HTTP client ─────────────────────────────────────────────── */

// strapiClient fetches published content from a headless Strapi instance.
// Uses raw net/http — the Strapi surface we consume is one list endpoint, not
// worth an SDK.
type strapiClient struct {
	baseURL string
	token   string
}

// strapiArticleEnvelope is the wire shape of Strapi's /api/articles response:
// data rows with nested attributes plus pagination meta.
type strapiArticleEnvelope struct {
	Data []struct {
		ID         int `json:"id"`
		Attributes struct {
			Title       string `json:"title"`
			Slug        string `json:"slug"`
			Excerpt     string `json:"excerpt"`
			Locale      string `json:"locale"`
			PublishedAt string `json:"publishedAt"`
			Category    struct {
				Data *struct {
					Attributes struct {
						Slug string `json:"slug"`
					} `json:"attributes"`
				} `json:"data"`
			} `json:"category"`
		} `json:"attributes"`
	} `json:"data"`
	Meta struct {
		Pagination struct {
			Page      int `json:"page"`
			PageSize  int `json:"pageSize"`
			PageCount int `json:"pageCount"`
			Total     int `json:"total"`
		} `json:"pagination"`
	} `json:"meta"`
}

// listArticles fetches one page of articles in a category and locale, mapped
// out of the Strapi envelope into the flat API shape.
func (s *strapiClient) listArticles(ctx context.Context, category, locale string, page, pageSize int) (articleList, error) {
	q := url.Values{}
	q.Set("filters[category][slug][$eq]", category)
	q.Set("locale", locale)
	q.Set("pagination[page]", strconv.Itoa(page))
	q.Set("pagination[pageSize]", strconv.Itoa(pageSize))
	q.Set("populate", "category")
	q.Set("sort", "publishedAt:desc")

	req, err := http.NewRequestWithContext(ctx, "GET", s.baseURL+"/api/articles?"+q.Encode(), nil)
	if err != nil {
		return articleList{}, fmt.Errorf("create request: %w", err)
	}
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	client := &http.Client{Timeout: 15 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return articleList{}, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return articleList{}, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return articleList{}, fmt.Errorf("strapi returned status %d: %s", resp.StatusCode, string(respBytes))
	}

	var envelope strapiArticleEnvelope
	if err := json.Unmarshal(respBytes, &envelope); err != nil {
		return articleList{}, fmt.Errorf("unmarshal response: %w", err)
	}

	out := articleList{
		Articles: make([]article, 0, len(envelope.Data)),
		Pagination: articlePagination{
			Page:      envelope.Meta.Pagination.Page,
			PageSize:  envelope.Meta.Pagination.PageSize,
			PageCount: envelope.Meta.Pagination.PageCount,
			Total:     envelope.Meta.Pagination.Total,
		},
	}
	for _, row := range envelope.Data {
		a := article{
			ID:          row.ID,
			Title:       row.Attributes.Title,
			Slug:        row.Attributes.Slug,
			Excerpt:     row.Attributes.Excerpt,
			Locale:      row.Attributes.Locale,
			PublishedAt: row.Attributes.PublishedAt,
		}
		if cat := row.Attributes.Category.Data; cat != nil {
			a.Category = cat.Attributes.Slug
		}
		out.Articles = append(out.Articles, a)
	}
	return out, nil
}

/* ─── Handlers ───────────────────────────────────────────────────────── */

// getArticles lists published articles for a category, read-through cached.
// GET /api/articles?category=<slug>&locale=en&page=1&page_size=10.
func (h *Handler) getArticles(c *gin.Context) {
	category := c.Query("category")
	if category == "" {
		apiError(c, http.StatusBadRequest, "category query param is required")
		return
	}
	locale := c.DefaultQuery("locale", "en")

	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		apiError(c, http.StatusBadRequest, "page must be a positive integer")
		return
	}
	pageSize, err := strconv.Atoi(c.DefaultQuery("page_size", "10"))
	if err != nil || pageSize < 1 || pageSize > 100 {
		apiError(c, http.StatusBadRequest, "page_size must be between 1 and 100")
		return
	}

	key := fmt.Sprintf("articles:%s:%s:%d:%d", category, locale, page, pageSize)
	if cached, ok := h.content.get(key); ok {
		c.Data(http.StatusOK, "application/json; charset=utf-8", cached)
		return
	}

	list, err := h.strapi.listArticles(c.Request.Context(), category, locale, page, pageSize)
	if err != nil {
		log.Printf("[getArticles] Strapi error: %v", err)
		apiError(c, http.StatusBadGateway, "content service unavailable")
		return
	}

	body, err := json.Marshal(list)
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to encode articles")
		return
	}
	h.content.set(key, body)

	c.Data(http.StatusOK, "application/json; charset=utf-8", body)
}

// strapiWebhookModels maps the model name Strapi sends in its webhook payload
// to the cache key prefix that must be dropped when that content type changes.
var strapiWebhookModels = map[string]string{
	"article":  "articles",
	"category": "articles", // category renames change article listings too
}

// strapiWebhook invalidates the content cache when the CMS publishes,
// updates, or deletes an entry. Only the prefix for the changed content type
// is cleared — the rest of the cache stays warm.
// POST /api/webhooks/strapi.
func (h *Handler) strapiWebhook(c *gin.Context) {
	var body struct {
		Event string `json:"event"`
		Model string `json:"model"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	prefix, ok := strapiWebhookModels[body.Model]
	if !ok {
		// Unknown content types don't feed any cached endpoint; acknowledge and move on.
		c.JSON(http.StatusOK, gin.H{"invalidated": 0})
		return
	}

	n := h.content.invalidatePrefix(prefix)
	log.Printf("[strapiWebhook] %s %s: invalidated %d cache entries", body.Event, body.Model, n)
	c.JSON(http.StatusOK, gin.H{"invalidated": n})
}
