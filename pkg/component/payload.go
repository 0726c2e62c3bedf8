package component

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/zbysir/gomodul/pkg/controller"
	"github.com/zbysir/gomodul/pkg/fetch"
)

type base struct {
	Title string `json:"title,omitempty"`
	Theme string `json:"theme,omitempty"`
	Share bool   `json:"shared"`
}

func (b *base) Label() string { return b.Title }
func (b *base) Shared() bool  { return b.Share }

type Button struct {
	Text    string `json:"text"`
	URL     string `json:"url"`
	Primary bool   `json:"primary,omitempty"`
	Icon    string `json:"icon,omitempty"`
}

type Link struct {
	Text     string `json:"text"`
	URL      string `json:"url"`
	External bool   `json:"external,omitempty"`
}

// Cell is a table cell; numbers and booleans keep their JSON spelling.
type Cell string

func (c *Cell) UnmarshalJSON(bs []byte) error {
	bs = bytes.TrimSpace(bs)
	switch {
	case len(bs) == 0 || bytes.Equal(bs, []byte("null")):
		*c = ""
	case bs[0] == '"':
		var s string
		if err := json.Unmarshal(bs, &s); err != nil {
			return err
		}
		*c = Cell(s)
	default:
		*c = Cell(bs)
	}
	return nil
}

type Hero struct {
	base
	Subtitle        string   `json:"subtitle,omitempty"`
	Description     string   `json:"description,omitempty"`
	BackgroundImage string   `json:"backgroundImage,omitempty"`
	Buttons         []Button `json:"buttons,omitempty"`
}

func (*Hero) Kind() Kind { return KindHero }
func (p *Hero) Validate() error {
	if p.Title == "" {
		return missing(KindHero, "title")
	}
	return nil
}

type Text struct {
	base
	Content string `json:"content"`
	// Format is "html" or "markdown"; empty means sniff the content.
	Format string `json:"format,omitempty"`
	Align  string `json:"align"`
	Size   string `json:"size"`
}

func (*Text) Kind() Kind { return KindText }
func (p *Text) Validate() error {
	if p.Content == "" {
		return missing(KindText, "content")
	}
	return nil
}

func (p *Text) IsHTML() bool {
	switch p.Format {
	case "html":
		return true
	case "markdown", "md":
		return false
	}
	return strings.HasPrefix(strings.TrimSpace(p.Content), "<")
}

type Code struct {
	base
	Description     string `json:"description,omitempty"`
	FilePath        string `json:"filePath,omitempty"`
	Code            string `json:"code,omitempty"`
	Language        string `json:"language"`
	HighlightLines  []int  `json:"highlightLines,omitempty"`
	ShowLineNumbers bool   `json:"showLineNumbers"`
	ShowPreview     bool   `json:"showPreview,omitempty"`
	Downloadable    bool   `json:"downloadable"`
}

func (*Code) Kind() Kind { return KindCode }

// Label falls back to the file name, "code.txt" for inline code.
func (p *Code) Label() string {
	if p.Title != "" {
		return p.Title
	}
	return fetch.FileName(p.FilePath)
}

func (p *Code) Validate() error {
	if p.FilePath == "" && p.Code == "" {
		return missing(KindCode, "filePath")
	}
	return nil
}

func (p *Code) normalize() {
	if p.Language == "" {
		p.Language = "javascript"
	}
}

type CommandItem struct {
	Command string `json:"command"`
	Output  string `json:"output,omitempty"`
	Comment string `json:"comment,omitempty"`
}

type Command struct {
	base
	Description string        `json:"description,omitempty"`
	Commands    []CommandItem `json:"commands"`
	Type        string        `json:"type"`
}

func (*Command) Kind() Kind { return KindCommand }
func (p *Command) Validate() error {
	if len(p.Commands) == 0 {
		return missing(KindCommand, "commands")
	}
	return nil
}

var prompts = map[string]string{"terminal": "$", "powershell": "PS>", "cmd": "C:>"}

func (p *Command) Prompt() string {
	if s, ok := prompts[p.Type]; ok {
		return s
	}
	return "$"
}

type Video struct {
	base
	Description string `json:"description,omitempty"`
	VideoID     string `json:"videoId"`
	AspectRatio string `json:"aspectRatio,omitempty"`
}

func (*Video) Kind() Kind { return KindVideo }
func (p *Video) Validate() error {
	if p.VideoID == "" {
		return missing(KindVideo, "videoId")
	}
	return nil
}

type Image struct {
	base
	Src     string `json:"src"`
	Alt     string `json:"alt,omitempty"`
	Caption string `json:"caption,omitempty"`
	Width   string `json:"width"`
	Align   string `json:"align"`
}

func (*Image) Kind() Kind { return KindImage }
func (p *Image) Label() string {
	if p.Title != "" {
		return p.Title
	}
	return p.Alt
}
func (p *Image) Validate() error {
	if p.Src == "" {
		return missing(KindImage, "src")
	}
	return nil
}

type Alert struct {
	base
	Type        string `json:"type"`
	Content     string `json:"content"`
	Dismissible bool   `json:"dismissible,omitempty"`
}

func (*Alert) Kind() Kind { return KindAlert }
func (p *Alert) Validate() error {
	if p.Content == "" {
		return missing(KindAlert, "content")
	}
	return nil
}

type Information struct {
	base
	Content     string `json:"content,omitempty"`
	Type        string `json:"type"`
	Icon        string `json:"icon,omitempty"`
	Link        *Link  `json:"link,omitempty"`
	Footer      string `json:"footer,omitempty"`
	Dismissible bool   `json:"dismissible,omitempty"`
}

func (*Information) Kind() Kind { return KindInformation }
func (p *Information) Validate() error {
	if p.Title == "" {
		return missing(KindInformation, "title")
	}
	return nil
}

type Info struct {
	base
	Content string `json:"content,omitempty"`
	Type    string `json:"type,omitempty"`
}

func (*Info) Kind() Kind { return KindInfo }
func (p *Info) Validate() error {
	if p.Title == "" {
		return missing(KindInfo, "title")
	}
	return nil
}

type List struct {
	base
	Type  string   `json:"type"`
	Items []string `json:"items"`
}

func (*List) Kind() Kind { return KindList }
func (p *List) Validate() error {
	if len(p.Items) == 0 {
		return missing(KindList, "items")
	}
	return nil
}

func (p *List) Ordered() bool { return p.Type == "ordered" }

type AccordionItem struct {
	Title       string `json:"title"`
	Content     string `json:"content"`
	DefaultOpen bool   `json:"defaultOpen,omitempty"`
}

type Accordion struct {
	base
	Items         []AccordionItem `json:"items"`
	AllowMultiple bool            `json:"allowMultiple"`
}

func (*Accordion) Kind() Kind { return KindAccordion }
func (p *Accordion) Validate() error {
	if len(p.Items) == 0 {
		return missing(KindAccordion, "items")
	}
	return nil
}

// DefaultOpen lists the indexes marked open by default.
func (p *Accordion) DefaultOpen() []int {
	var out []int
	for i, it := range p.Items {
		if it.DefaultOpen {
			out = append(out, i)
		}
	}
	return out
}

type QuestionKind = controller.QuestionKind

const (
	QuestionChoice = controller.QuestionChoice
	QuestionText   = controller.QuestionText
)

type Question struct {
	Question string       `json:"question"`
	Type     QuestionKind `json:"type"`
	Options  []string     `json:"options,omitempty"`
}

type Quiz struct {
	base
	Questions []Question `json:"questions"`
}

func (*Quiz) Kind() Kind { return KindQuiz }
func (p *Quiz) Validate() error {
	if len(p.Questions) == 0 {
		return missing(KindQuiz, "questions")
	}
	return nil
}

func (p *Quiz) normalize() {
	for i := range p.Questions {
		q := &p.Questions[i]
		switch q.Type {
		case "multiple-choice", "single-choice", "radio":
			q.Type = QuestionChoice
		case "":
			if len(q.Options) != 0 {
				q.Type = QuestionChoice
			} else {
				q.Type = QuestionText
			}
		}
	}
}

// QuestionKinds lists the question kinds in order.
func (p *Quiz) QuestionKinds() []QuestionKind {
	out := make([]QuestionKind, len(p.Questions))
	for i, q := range p.Questions {
		out[i] = q.Type
	}
	return out
}

type Table struct {
	base
	Headers    []string `json:"headers"`
	Rows       [][]Cell `json:"rows,omitempty"`
	Responsive bool     `json:"responsive"`
}

func (*Table) Kind() Kind { return KindTable }
func (p *Table) Validate() error {
	if len(p.Headers) == 0 {
		return missing(KindTable, "headers")
	}
	return nil
}

type CardItem struct {
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Image       string   `json:"image,omitempty"`
	Buttons     []Button `json:"buttons,omitempty"`
}

type Card struct {
	base
	Cards   []CardItem `json:"cards"`
	Columns int        `json:"columns"`
}

func (*Card) Kind() Kind { return KindCard }
func (p *Card) Validate() error {
	if len(p.Cards) == 0 {
		return missing(KindCard, "cards")
	}
	return nil
}

func (p *Card) normalize() {
	if p.Columns < 1 {
		p.Columns = 1
	}
	if p.Columns > 3 {
		p.Columns = 3
	}
}

type TimelineItem struct {
	Title       string `json:"title"`
	Subtitle    string `json:"subtitle,omitempty"`
	Description string `json:"description,omitempty"`
	Link        *Link  `json:"link,omitempty"`
}

type Timeline struct {
	base
	Items []TimelineItem `json:"items"`
}

func (*Timeline) Kind() Kind { return KindTimeline }
func (p *Timeline) Validate() error {
	if len(p.Items) == 0 {
		return missing(KindTimeline, "items")
	}
	return nil
}

type File struct {
	Name        string `json:"name"`
	URL         string `json:"url"`
	Type        string `json:"type,omitempty"`
	Description string `json:"description,omitempty"`
	Size        string `json:"size,omitempty"`
}

type Download struct {
	base
	Description string `json:"description,omitempty"`
	Files       []File `json:"files"`
}

func (*Download) Kind() Kind { return KindDownload }
func (p *Download) Validate() error {
	if len(p.Files) == 0 {
		return missing(KindDownload, "files")
	}
	return nil
}

type Completion struct {
	base
	Message   string   `json:"message,omitempty"`
	Checklist []string `json:"checklist,omitempty"`
	Next      *Link    `json:"next,omitempty"`
}

func (*Completion) Kind() Kind { return KindCompletion }
func (p *Completion) Validate() error {
	if p.Title == "" {
		return missing(KindCompletion, "title")
	}
	return nil
}

type Material struct {
	base
	Content string `json:"content,omitempty"`
	Level   string `json:"level"`
}

func (*Material) Kind() Kind { return KindMaterial }
func (p *Material) Validate() error {
	if p.Title == "" {
		return missing(KindMaterial, "title")
	}
	return nil
}

func (p *Material) normalize() {
	switch p.Level {
	case "h1", "h2", "h3", "h4", "h5", "h6":
	default:
		p.Level = "h2"
	}
}

type ModuleHeader struct {
	base
	ModuleName  string `json:"moduleName,omitempty"`
	Description string `json:"description,omitempty"`
}

func (*ModuleHeader) Kind() Kind { return KindModuleHeader }
func (p *ModuleHeader) Validate() error {
	if p.Title == "" {
		return missing(KindModuleHeader, "title")
	}
	return nil
}

// Decode unmarshals raw into p and applies normalization.
// Absent data leaves the defaults p was created with.
func Decode(p Payload, raw json.RawMessage) error {
	raw = bytes.TrimSpace(raw)
	if len(raw) != 0 && !bytes.Equal(raw, []byte("null")) {
		if err := json.Unmarshal(raw, p); err != nil {
			return &MissingFieldError{Kind: p.Kind(), Field: "data", Err: err}
		}
	}
	if n, ok := p.(normalizer); ok {
		n.normalize()
	}
	return nil
}
