package search

import (
	"encoding/json"
	"fmt"
	"strings"
)

// DefaultLinkTitle labels a link whose response item carried no title.
const DefaultLinkTitle = "관련 문서"

// Result is either Structured or Unstructured.
type Result interface {
	// Kind is "structured" or "unstructured".
	Kind() string
	isResult()
}

// Structured is a JSON object response.
type Structured struct {
	Summary string
	Links   []Link
}

// Unstructured holds any other response body verbatim.
type Unstructured struct {
	Text string
}

// Link is a reference document suggested by the search service. URL may be empty.
type Link struct {
	Title string
	URL   string
}

func (Structured) Kind() string   { return "structured" }
func (Unstructured) Kind() string { return "unstructured" }
func (Structured) isResult()      {}
func (Unstructured) isResult()    {}

// decodeResult classifies a response body.
func decodeResult(body []byte) Result {
	var obj map[string]any
	if err := json.Unmarshal(body, &obj); err != nil || obj == nil {
		return Unstructured{Text: string(body)}
	}
	return Structured{
		Summary: firstText(obj, "summary", "answer", "message"),
		Links:   decodeLinks(firstNonEmpty(obj, "links", "documents")),
	}
}

func decodeLinks(v any) []Link {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	links := make([]Link, 0, len(items))
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			links = append(links, Link{Title: text(item)})
			continue
		}
		title := firstText(m, "title", "name")
		if title == "" {
			title = DefaultLinkTitle
		}
		links = append(links, Link{Title: title, URL: firstText(m, "url", "link")})
	}
	return links
}

// firstNonEmpty returns the first value under keys that is not null, an
// empty string or an empty list.
func firstNonEmpty(m map[string]any, keys ...string) any {
	for _, k := range keys {
		switch v := m[k].(type) {
		case nil:
		case string:
			if v != "" {
				return v
			}
		case []any:
			if len(v) > 0 {
				return v
			}
		default:
			return v
		}
	}
	return nil
}

func firstText(m map[string]any, keys ...string) string {
	return text(firstNonEmpty(m, keys...))
}

func text(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64, bool:
		return fmt.Sprint(x)
	default:
		b, err := json.Marshal(x)
		if err != nil {
			return fmt.Sprint(x)
		}
		return string(b)
	}
}

// Query is the search tuple. It is also the cache key.
type Query struct {
	Keyword string
	Model   string
	Symptom string
}

// notProvided replaces empty fields in the prompt.
const notProvided = "(미입력)"

const promptTemplate = "다음 정보를 바탕으로 오토바이 정비 매뉴얼 요약과 진단 가이드를 제공해 주세요.\n" +
	"- 사용자가 찾는 키워드: %s\n" +
	"- 차량 모델: %s\n" +
	"- 증상/상태: %s\n" +
	"필요하다면 추가로 참고할 수 있는 매뉴얼 또는 문서 링크를 함께 제시해 주세요."

// Normalize trims every field.
func (q Query) Normalize() Query {
	return Query{
		Keyword: strings.TrimSpace(q.Keyword),
		Model:   strings.TrimSpace(q.Model),
		Symptom: strings.TrimSpace(q.Symptom),
	}
}

// Prompt renders the fixed prompt template for q.
func (q Query) Prompt() string {
	q = q.Normalize()
	return fmt.Sprintf(promptTemplate, orNotProvided(q.Keyword), orNotProvided(q.Model), orNotProvided(q.Symptom))
}

func orNotProvided(s string) string {
	if s == "" {
		return notProvided
	}
	return s
}
