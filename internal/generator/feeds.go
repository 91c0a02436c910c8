package generator

import (
	"fmt"
	"html"
	"sort"
	"strings"
	"time"
)

const maxFeedItems = 100

type feedItem struct {
	Title       string
	Summary     string
	Link        string
	GUID        string
	PublishedAt time.Time
}

// buildFeed renders an RSS 2.0 document for the newest published posts.
func buildFeed(site SiteMetadata, pages []RenderedPost, generatedAt time.Time) string {
	items := make([]feedItem, 0, len(pages))
	seen := map[string]struct{}{}

	for _, page := range pages {
		route := strings.TrimSpace(page.Route)
		if route == "" {
			continue
		}
		guid := absoluteURL(site.BaseURL, route)
		if _, ok := seen[guid]; ok {
			continue
		}
		seen[guid] = struct{}{}

		publishedAt := page.PublishedAt
		if publishedAt.IsZero() {
			publishedAt = page.LastModified
		}
		if publishedAt.IsZero() {
			publishedAt = generatedAt
		}

		items = append(items, feedItem{
			Title:       page.Title,
			Summary:     page.Summary,
			Link:        guid,
			GUID:        guid,
			PublishedAt: publishedAt,
		})
	}

	sort.Slice(items, func(i, j int) bool {
		if items[i].PublishedAt.Equal(items[j].PublishedAt) {
			return items[i].GUID < items[j].GUID
		}
		return items[i].PublishedAt.After(items[j].PublishedAt)
	})
	if len(items) > maxFeedItems {
		items = items[:maxFeedItems]
	}

	var builder strings.Builder
	builder.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	builder.WriteString(`<rss version="2.0">` + "\n")
	builder.WriteString("  <channel>\n")
	builder.WriteString(fmt.Sprintf("    <title>%s</title>\n", html.EscapeString(site.Title)))
	builder.WriteString(fmt.Sprintf("    <link>%s</link>\n", html.EscapeString(absoluteURL(site.BaseURL, "/"))))
	if site.Description != "" {
		builder.WriteString(fmt.Sprintf("    <description>%s</description>\n", html.EscapeString(site.Description)))
	} else {
		builder.WriteString("    <description></description>\n")
	}
	if site.Language != "" {
		builder.WriteString(fmt.Sprintf("    <language>%s</language>\n", html.EscapeString(site.Language)))
	}
	builder.WriteString(fmt.Sprintf("    <lastBuildDate>%s</lastBuildDate>\n", generatedAt.UTC().Format(time.RFC1123Z)))

	for _, item := range items {
		builder.WriteString("    <item>\n")
		builder.WriteString(fmt.Sprintf("      <title>%s</title>\n", html.EscapeString(item.Title)))
		builder.WriteString(fmt.Sprintf("      <link>%s</link>\n", html.EscapeString(item.Link)))
		builder.WriteString(fmt.Sprintf("      <guid>%s</guid>\n", html.EscapeString(item.GUID)))
		if item.Summary != "" {
			builder.WriteString(fmt.Sprintf("      <description>%s</description>\n", html.EscapeString(item.Summary)))
		}
		builder.WriteString(fmt.Sprintf("      <pubDate>%s</pubDate>\n", item.PublishedAt.UTC().Format(time.RFC1123Z)))
		builder.WriteString("    </item>\n")
	}

	builder.WriteString("  </channel>\n")
	builder.WriteString("</rss>\n")
	return builder.String()
}
