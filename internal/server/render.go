// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"bytes"
	"html/template"
	"net/http"
	"strings"

	"github.com/yuin/goldmark"

	"github.com/meshintel/blogsmith/internal/pipeline"
	"github.com/meshintel/blogsmith/pkg/types"
)

// markdown renders article previews. goldmark escapes raw HTML by
// default, which is what we want for model output.
var markdown = goldmark.New()

// pageData feeds the wizard template. One struct for all stages keeps the
// template a single linear document.
type pageData struct {
	Stage      string
	StageNum   int
	Error      string
	Topic      string
	Queries    []string
	Results    []types.SearchResult
	DocCount   int
	UsableDocs int

	Plan              types.ContentPlan
	SecondaryKeywords string
	Outline           string

	TargetWords int
	MinWords    int
	MaxWords    int

	Article     *types.Article
	ArticleHTML template.HTML
}

func (s *Server) render(w http.ResponseWriter, sess *session) {
	wr := sess.writer

	data := pageData{
		Stage:       wr.Stage().String(),
		StageNum:    stageNum(wr.Stage()),
		Error:       sess.lastErr,
		Topic:       wr.Topic(),
		Queries:     wr.Queries(),
		Results:     wr.Results(),
		MinWords:    s.cfg.Generation.MinWords,
		MaxWords:    s.cfg.Generation.MaxWords,
		TargetWords: s.cfg.Generation.TargetWords(),
	}

	for _, d := range wr.Documents() {
		data.DocCount++
		if !d.Empty() {
			data.UsableDocs++
		}
	}

	plan := wr.Plan()
	data.Plan = plan
	data.SecondaryKeywords = strings.Join(plan.SecondaryKeywords, "\n")
	data.Outline = strings.Join(plan.Outline, "\n")

	if article, ok := wr.Article(); ok {
		data.Article = &article
		var buf bytes.Buffer
		if err := markdown.Convert([]byte(article.Body), &buf); err == nil {
			data.ArticleHTML = template.HTML(buf.String())
		}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := wizardTmpl.Execute(w, data); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func stageNum(st pipeline.Stage) int {
	switch st {
	case pipeline.StageTopic:
		return 1
	case pipeline.StageResearch:
		return 2
	case pipeline.StagePlanning:
		return 3
	default:
		return 4
	}
}

var wizardTmpl = template.Must(template.New("wizard").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Blogsmith</title>
<style>
body { font-family: system-ui, sans-serif; max-width: 54rem; margin: 2rem auto; padding: 0 1rem; color: #1a1a1a; }
h1 { font-size: 1.5rem; }
.steps { color: #666; margin-bottom: 1.5rem; }
.steps b { color: #1a1a1a; }
.error { background: #fde8e8; border: 1px solid #e0b4b4; padding: .75rem 1rem; border-radius: 4px; margin-bottom: 1rem; }
label { display: block; margin-top: 1rem; font-weight: 600; }
input[type=text], textarea { width: 100%; padding: .5rem; margin-top: .25rem; font: inherit; box-sizing: border-box; }
textarea { min-height: 6rem; }
button { margin-top: 1rem; padding: .5rem 1.25rem; font: inherit; cursor: pointer; }
.primary { background: #1a6d3b; color: #fff; border: none; border-radius: 4px; }
.secondary { background: #eee; border: 1px solid #ccc; border-radius: 4px; }
.sources li { margin-bottom: .25rem; }
.article { border: 1px solid #ddd; border-radius: 4px; padding: 1rem 1.5rem; margin-top: 1rem; }
.meta { color: #666; font-size: .9rem; }
</style>
</head>
<body>
<h1>Blogsmith</h1>
<p class="steps">
{{if eq .StageNum 1}}<b>1. Topic</b>{{else}}1. Topic{{end}} &rsaquo;
{{if eq .StageNum 2}}<b>2. Research</b>{{else}}2. Research{{end}} &rsaquo;
{{if eq .StageNum 3}}<b>3. Content Plan</b>{{else}}3. Content Plan{{end}} &rsaquo;
{{if eq .StageNum 4}}<b>4. Article</b>{{else}}4. Article{{end}}
</p>

{{if .Error}}<div class="error">{{.Error}}</div>{{end}}

{{if eq .Stage "topic"}}
<form method="post" action="/topic">
  <label for="topic">What would you like to write about?</label>
  <input type="text" id="topic" name="topic" placeholder="e.g. electric bicycles" autofocus>
  <button class="primary" type="submit">Research Topic</button>
</form>
{{end}}

{{if eq .Stage "research"}}
<p><b>Topic:</b> {{.Topic}}</p>
<h2>Search Queries</h2>
<ol>
{{range .Queries}}<li>{{.}}</li>
{{end}}</ol>
{{if .Results}}
<p>Research complete: {{.UsableDocs}} of {{.DocCount}} sources yielded content.</p>
<ul class="sources">
{{range .Results}}<li><a href="{{.URL}}" rel="nofollow">{{if .Title}}{{.Title}}{{else}}{{.URL}}{{end}}</a></li>
{{end}}</ul>
{{end}}
<form method="post" action="/research">
  <button class="primary" type="submit">Perform Research</button>
</form>
<form method="post" action="/restart">
  <button class="secondary" type="submit">Start Over</button>
</form>
{{end}}

{{if eq .Stage "planning"}}
<p><b>Topic:</b> {{.Topic}}</p>
<form method="post" action="/plan">
  <label for="primary_keyword">Primary Keyword</label>
  <input type="text" id="primary_keyword" name="primary_keyword" value="{{.Plan.PrimaryKeyword}}">
  <label for="secondary_keywords">Secondary Keywords (one per line)</label>
  <textarea id="secondary_keywords" name="secondary_keywords">{{.SecondaryKeywords}}</textarea>
  <label for="title">Blog Title</label>
  <input type="text" id="title" name="title" value="{{.Plan.Title}}">
  <label for="outline">Outline (one section per line)</label>
  <textarea id="outline" name="outline">{{.Outline}}</textarea>
  <button class="primary" type="submit">Update and Continue</button>
</form>
<form method="post" action="/restart">
  <button class="secondary" type="submit">Start Over</button>
</form>
{{end}}

{{if or (eq .Stage "writing") (eq .Stage "done")}}
<p><b>Topic:</b> {{.Topic}} &middot; <b>Title:</b> {{.Plan.Title}} &middot; <b>Primary Keyword:</b> {{.Plan.PrimaryKeyword}}</p>
<form method="post" action="/write">
  <label for="words">Target Word Count ({{.MinWords}}&ndash;{{.MaxWords}})</label>
  <input type="text" id="words" name="words" value="{{.TargetWords}}">
  <button class="primary" type="submit">{{if .Article}}Regenerate Article{{else}}Generate Article{{end}}</button>
</form>
{{if .Article}}
<p class="meta">{{.Article.WordCount}} words &middot; <a href="/download">Download as Markdown</a></p>
<div class="article">{{.ArticleHTML}}</div>
{{end}}
<form method="post" action="/restart">
  <button class="secondary" type="submit">Start Over</button>
</form>
{{end}}
</body>
</html>
`))
