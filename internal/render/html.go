// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import (
	"fmt"
	"html/template"
	"io"

	"github.com/pdiddy/arxivlens/pkg/types"
)

// paperCard is the per-paper view model for the results page.
type paperCard struct {
	Rank           string
	Title          string
	URL            string
	PDFURL         string
	Summary        string
	Reasons        []string
	Action         string
	JudgmentFailed bool
}

type resultsPage struct {
	Cards    []paperCard
	FellBack bool
}

var pageTemplate = template.Must(template.New("results").Parse(`<!doctype html>
<html lang="en">
  <head>
    <meta charset="utf-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1" />
    <title>ArxivLens Results</title>
    <style>
      :root {
        --bg: #f6f1e8;
        --ink: #1f1e1c;
        --muted: #5e5a55;
        --accent: #2f6d6a;
        --card: #fffaf1;
        --shadow: rgba(28, 27, 26, 0.12);
      }
      * { box-sizing: border-box; }
      body {
        margin: 0;
        font-family: "Iowan Old Style", "Palatino", "Book Antiqua", "Georgia", serif;
        color: var(--ink);
        background:
          radial-gradient(circle at top left, rgba(46, 110, 105, 0.12), transparent 45%),
          radial-gradient(circle at top right, rgba(153, 114, 73, 0.12), transparent 40%),
          var(--bg);
      }
      header { max-width: 1100px; margin: 52px auto 32px; padding: 0 24px; }
      h1 { font-size: clamp(2.2rem, 4vw, 3rem); margin: 0 0 10px; letter-spacing: 0.02em; }
      .subtitle { color: var(--muted); margin: 0; font-size: 1.05rem; }
      .notice { color: var(--accent); margin: 10px 0 0; font-size: 0.95rem; }
      main {
        max-width: 1100px;
        margin: 0 auto 60px;
        padding: 0 24px 24px;
        display: grid;
        gap: 22px;
      }
      .card {
        background: var(--card);
        border-radius: 18px;
        padding: 24px 26px;
        box-shadow: 0 20px 40px var(--shadow);
        border: 1px solid rgba(31, 30, 28, 0.06);
      }
      .card-header { display: flex; gap: 14px; align-items: baseline; }
      .rank { color: var(--accent); font-weight: 700; letter-spacing: 0.08em; font-size: 0.9rem; }
      .title { margin: 0; font-size: 1.35rem; line-height: 1.4; }
      .links { margin: 12px 0 16px; display: flex; gap: 16px; font-size: 0.95rem; }
      .links a {
        color: var(--accent);
        text-decoration: none;
        border-bottom: 1px solid rgba(47, 109, 106, 0.3);
      }
      .summary { color: var(--muted); line-height: 1.6; margin: 0 0 18px; }
      .reasons h3 {
        margin: 0 0 10px;
        font-size: 1rem;
        text-transform: uppercase;
        letter-spacing: 0.12em;
        color: var(--accent);
      }
      .reasons ul { margin: 0; padding-left: 18px; color: var(--ink); line-height: 1.5; }
      .failed { color: var(--muted); font-size: 0.85rem; }
      @media (max-width: 700px) {
        .card { padding: 20px; }
        .card-header { flex-direction: column; align-items: flex-start; }
      }
    </style>
  </head>
  <body>
    <header>
      <h1>ArxivLens</h1>
      <p class="subtitle">Curated arXiv recommendations with summaries and reasons.</p>
      {{- if .FellBack }}
      <p class="notice">No papers survived the relevance filter; showing the embedding ranking instead.</p>
      {{- end }}
    </header>
    <main>
      {{- if not .Cards }}
      <p>No papers to display.</p>
      {{- end }}
      {{- range .Cards }}
      <article class="card">
        <div class="card-header">
          <span class="rank">#{{ .Rank }}</span>
          <h2 class="title">{{ .Title }}</h2>
          {{- if .JudgmentFailed }}
          <span class="failed">judgment failed</span>
          {{- end }}
        </div>
        <div class="links">
          <a href="{{ .URL }}" target="_blank" rel="noopener">Paper</a>
          <a href="{{ .PDFURL }}" target="_blank" rel="noopener">PDF</a>
        </div>
        <p class="summary">{{ .Summary }}</p>
        <div class="reasons">
          <h3>Recommendation reasons</h3>
          <ul>
            {{- if .Reasons }}
            {{- range .Reasons }}
            <li>{{ . }}</li>
            {{- end }}
            {{- else }}
            <li>No recommendation reasons provided.</li>
            {{- end }}
          </ul>
        </div>
      </article>
      {{- end }}
    </main>
  </body>
</html>
`))

// WriteHTML renders the results page for a ranked batch. fellBack surfaces
// the embedding-only fallback and the per-paper judgment-failed markers.
func WriteHTML(w io.Writer, papers []*types.Paper, fellBack bool) error {
	page := resultsPage{FellBack: fellBack, Cards: make([]paperCard, 0, len(papers))}
	for i, p := range papers {
		page.Cards = append(page.Cards, paperCard{
			Rank:           fmt.Sprintf("%02d", i+1),
			Title:          p.Title,
			URL:            p.URL(),
			PDFURL:         p.PDFURL(),
			Summary:        p.Summary,
			Reasons:        p.Reasons,
			Action:         p.Action,
			JudgmentFailed: fellBack && p.JudgmentFailed,
		})
	}
	if err := pageTemplate.Execute(w, page); err != nil {
		return fmt.Errorf("rendering results page: %w", err)
	}
	return nil
}
