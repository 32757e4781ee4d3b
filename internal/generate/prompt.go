// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package generate

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/meshintel/blogsmith/pkg/types"
)

// maxHeadingsPerDoc caps how many headings of one source are included in
// the analysis prompt.
const maxHeadingsPerDoc = 10

// queriesSystemPrompt instructs the model to act as an SEO researcher and
// return only a JSON array of query strings.
const queriesSystemPrompt = `You are an expert SEO researcher who understands search patterns and high-volume keywords.
Your task is to convert a blog topic into search queries that will return popular, information-rich articles.
Think step-by-step about what most people would search for when looking for information on this topic.

Return ONLY a JSON object of the form {"queries": ["...", "..."]} with no additional explanations or text.`

// queriesPromptTmpl is the user prompt for the query stage.
var queriesPromptTmpl = template.Must(template.New("queries").Parse(`Generate {{.Count}} high-volume search queries for a blog about: "{{.Topic}}"

Follow these steps:
1. Identify the main subject and likely audience intent
2. Focus on broader, popular search terms (avoid niche, long-tail queries)
3. Include "how to", "best", "guide", or "examples" variations that typically have high search volume
4. Consider what beginners would search for to learn about this topic
5. Add queries that would surface comprehensive, informative articles rather than specific answers

Return the queries as a JSON object with a "queries" array of strings.`))

// analysisSystemPrompt instructs the model to extract a content plan from
// the scraped articles.
const analysisSystemPrompt = `You are a professional content analyzer and SEO expert. You will be given the text of articles that rank highly for a topic similar to ours. Analyze each article: find the keyword that appears most in titles and opening paragraphs, the distinct keywords used throughout, and how headings and sections are structured.

Provide your analysis in the following JSON format:
{
    "primary_keyword": "the main keyword that appears most frequently across all articles",
    "secondary_keywords": ["list of 5-10 distinct keywords that appear across articles"],
    "title": "a compelling title that includes the primary keyword",
    "outline": ["list of 5-10 hierarchical section headings for a blog post"]
}

Secondary keywords should be distinct and complementary to the primary keyword.
The title should be engaging and SEO-friendly, incorporating the primary keyword.
The outline should provide a clear structure for a 1000-1500 word blog post.`

// analysisPromptTmpl is the user prompt for the planning stage.
var analysisPromptTmpl = template.Must(template.New("analysis").Parse(`Original topic: {{.Topic}}

Analyze the following scraped content from multiple articles to create the primary keyword,
secondary keywords, a compelling title, and a detailed outline for a blog post:

{{.Content}}

Return your analysis in the requested JSON format.`))

// articleSystemPrompt instructs the model to write the final article.
const articleSystemPrompt = `You are a professional content writer skilled at creating comprehensive, engaging, and SEO-optimized blog posts. Your task is to write a complete article based on the provided parameters.

Follow these guidelines:
1. Use the primary keyword naturally throughout the article
2. Incorporate secondary keywords where relevant
3. Follow the provided outline structure
4. Write in a professional, informative, and engaging style
5. Include an introduction that hooks the reader
6. Provide practical, actionable information
7. End with a conclusion that summarizes key points
8. Format with Markdown headings, subheadings, and paragraphs
9. Aim for the specified word count

Return only the complete article with proper formatting.`

// articlePromptTmpl is the user prompt for the writing stage.
var articlePromptTmpl = template.Must(template.New("article").Parse(`Write a comprehensive blog post with the following parameters:

Topic: {{.Topic}}
Title: {{.Title}}
Primary Keyword: {{.PrimaryKeyword}}
Secondary Keywords: {{.SecondaryKeywords}}
Target Word Count: {{.Words}} words

Outline:
{{range .Outline}}- {{.}}
{{end}}
Create a well-structured, informative article that follows this outline and naturally
incorporates the keywords. The article should be engaging, valuable to readers, and
optimized for SEO.`))

// BuildQueriesPrompt renders the query-stage prompt for a topic.
func BuildQueriesPrompt(topic string, count int) (Prompt, error) {
	var buf bytes.Buffer
	err := queriesPromptTmpl.Execute(&buf, struct {
		Topic string
		Count int
	}{Topic: topic, Count: count})
	if err != nil {
		return Prompt{}, fmt.Errorf("rendering queries prompt: %w", err)
	}
	return Prompt{System: queriesSystemPrompt, User: buf.String()}, nil
}

// BuildAnalysisPrompt renders the planning-stage prompt from the scraped
// documents. Empty documents are skipped.
func BuildAnalysisPrompt(topic string, docs []types.Document) (Prompt, error) {
	var buf bytes.Buffer
	err := analysisPromptTmpl.Execute(&buf, struct {
		Topic   string
		Content string
	}{Topic: topic, Content: combineDocuments(docs)})
	if err != nil {
		return Prompt{}, fmt.Errorf("rendering analysis prompt: %w", err)
	}
	return Prompt{System: analysisSystemPrompt, User: buf.String()}, nil
}

// BuildArticlePrompt renders the writing-stage prompt from the approved plan.
func BuildArticlePrompt(topic string, plan types.ContentPlan, words int) (Prompt, error) {
	var buf bytes.Buffer
	err := articlePromptTmpl.Execute(&buf, struct {
		Topic             string
		Title             string
		PrimaryKeyword    string
		SecondaryKeywords string
		Words             int
		Outline           []string
	}{
		Topic:             topic,
		Title:             plan.Title,
		PrimaryKeyword:    plan.PrimaryKeyword,
		SecondaryKeywords: strings.Join(plan.SecondaryKeywords, ", "),
		Words:             words,
		Outline:           plan.Outline,
	})
	if err != nil {
		return Prompt{}, fmt.Errorf("rendering article prompt: %w", err)
	}
	return Prompt{System: articleSystemPrompt, User: buf.String()}, nil
}

// combineDocuments concatenates the non-empty documents with numbered
// separators and appends each source's headings.
func combineDocuments(docs []types.Document) string {
	var sb strings.Builder
	n := 0
	for _, doc := range docs {
		if doc.Empty() {
			continue
		}
		n++
		fmt.Fprintf(&sb, "--- Article %d ---\n\n", n)
		sb.WriteString(doc.Text)
		sb.WriteString("\n\n")

		if len(doc.Headings) > 0 {
			sb.WriteString("Headings:\n")
			for i, h := range doc.Headings {
				if i >= maxHeadingsPerDoc {
					break
				}
				fmt.Fprintf(&sb, "- %s\n", h.Text)
			}
			sb.WriteString("\n")
		}
	}
	return sb.String()
}
