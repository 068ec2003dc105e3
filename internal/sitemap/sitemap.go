// Package sitemap renders the machine-readable XML sitemap and the
// human-readable HTML sitemap of the site.
package sitemap

import (
	"bytes"
	"encoding/xml"
	"html/template"
	"sort"
	"time"

	"github.com/petslib-api/internal/models"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Fixed metadata attached to every URL
const (
	Namespace  = "http://www.sitemaps.org/schemas/sitemap/0.9"
	ChangeFreq = "hourly"
	Priority   = "0.9"
)

type urlset struct {
	XMLName xml.Name   `xml:"urlset"`
	Xmlns   string     `xml:"xmlns,attr"`
	URLs    []urlEntry `xml:"url"`
}

type urlEntry struct {
	XMLName    xml.Name `xml:"url"`
	Loc        string   `xml:"loc"`
	LastMod    string   `xml:"lastmod"`
	ChangeFreq string   `xml:"changefreq"`
	Priority   string   `xml:"priority"`
}

// RenderXML builds a sitemaps.org urlset for the home page, both index
// pages and every article and breed page. baseURL has no trailing slash.
func RenderXML(articles []*models.Article, breeds []*models.Breed, baseURL string, today time.Time) ([]byte, error) {
	lastMod := today.Format("2006-01-02")
	set := urlset{
		Xmlns: Namespace,
		URLs:  make([]urlEntry, 0, 3+len(articles)+len(breeds)),
	}
	add := func(loc string) {
		set.URLs = append(set.URLs, urlEntry{
			Loc:        loc,
			LastMod:    lastMod,
			ChangeFreq: ChangeFreq,
			Priority:   Priority,
		})
	}

	add(baseURL)
	add(baseURL + "/articles")
	add(baseURL + "/breeds")
	for _, a := range articles {
		add(baseURL + "/articles/" + a.ID)
	}
	for _, b := range breeds {
		add(baseURL + "/breeds/" + b.ID)
	}

	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(set); err != nil {
		return nil, err
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

type link struct {
	URL   string
	Label string
}

type categoryGroup struct {
	Name     string
	Articles []link
}

type htmlPage struct {
	SiteName   string
	BaseURL    string
	Categories []categoryGroup
	Dogs       []link
	Cats       []link
}

var htmlTemplate = template.Must(template.New("sitemap").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Sitemap - {{.SiteName}}</title>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; max-width: 1200px; margin: 0 auto; padding: 20px; background: #fffbf0; }
        h1 { color: #d97706; }
        h2 { color: #f59e0b; margin-top: 30px; }
        h3 { color: #f97316; }
        .section { margin-bottom: 30px; }
        ul { list-style: none; padding: 0; }
        li { margin: 8px 0; }
        a { color: #d97706; text-decoration: none; padding: 5px 10px; display: inline-block; border-radius: 5px; }
        a:hover { background: #fef3c7; }
        .main-links a { background: #fef3c7; padding: 10px 20px; margin-right: 10px; font-weight: 600; }
    </style>
</head>
<body>
    <h1>{{.SiteName}} Sitemap</h1>

    <div class="main-links">
        <a href="{{.BaseURL}}">Home</a>
        <a href="{{.BaseURL}}/articles">Articles</a>
        <a href="{{.BaseURL}}/breeds">Breeds</a>
    </div>

    <div class="section">
        <h2>Articles</h2>
{{- range .Categories}}
        <h3>{{.Name}}</h3>
        <ul>
{{- range .Articles}}
            <li><a href="{{.URL}}">{{.Label}}</a></li>
{{- end}}
        </ul>
{{- end}}
    </div>

    <div class="section">
        <h2>Dog Breeds</h2>
        <ul>
{{- range .Dogs}}
            <li><a href="{{.URL}}">{{.Label}}</a></li>
{{- end}}
        </ul>
    </div>

    <div class="section">
        <h2>Cat Breeds</h2>
        <ul>
{{- range .Cats}}
            <li><a href="{{.URL}}">{{.Label}}</a></li>
{{- end}}
        </ul>
    </div>
</body>
</html>
`))

// RenderHTML builds a page listing articles grouped by category and breeds
// grouped by species, each group sorted alphabetically
func RenderHTML(articles []*models.Article, breeds []*models.Breed, baseURL, siteName string) ([]byte, error) {
	titleCase := cases.Title(language.English)

	byCategory := make(map[string][]*models.Article)
	for _, a := range articles {
		category := a.Category
		if category == "" {
			category = "other"
		}
		byCategory[category] = append(byCategory[category], a)
	}

	names := make([]string, 0, len(byCategory))
	for name := range byCategory {
		names = append(names, name)
	}
	sort.Strings(names)

	page := htmlPage{SiteName: siteName, BaseURL: baseURL}
	for _, name := range names {
		group := byCategory[name]
		sort.SliceStable(group, func(i, j int) bool { return group[i].Title < group[j].Title })

		links := make([]link, len(group))
		for i, a := range group {
			title := a.Title
			if title == "" {
				title = "Untitled"
			}
			links[i] = link{URL: baseURL + "/articles/" + a.ID, Label: title}
		}
		page.Categories = append(page.Categories, categoryGroup{Name: titleCase.String(name), Articles: links})
	}

	sorted := append([]*models.Breed(nil), breeds...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })
	for _, b := range sorted {
		l := link{URL: baseURL + "/breeds/" + b.ID, Label: b.Name}
		switch b.Species {
		case models.SpeciesDog:
			page.Dogs = append(page.Dogs, l)
		case models.SpeciesCat:
			page.Cats = append(page.Cats, l)
		}
	}

	var buf bytes.Buffer
	if err := htmlTemplate.Execute(&buf, page); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
