package web

import (
	"bytes"
	"html/template"
	"log"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/jaminalder/duell/internal/app"
	"github.com/jaminalder/duell/internal/domain"
)

type templates struct {
	base  *template.Template
	game  *template.Template
	board *template.Template
	index *template.Template
}

func funcs() template.FuncMap {
	return template.FuncMap{
		"cols": func() []int {
			a := make([]int, domain.Cols)
			for i := range a {
				a[i] = i + 1
			}
			return a
		},
	}
}

func loadTemplates() *templates {
	base := template.Must(template.New("base").Funcs(funcs()).Parse(`<!doctype html><html><head>
<meta charset="utf-8"/>
<title>Duell</title>
<script src="https://unpkg.com/htmx.org@1.9.12"></script>
<script src="https://unpkg.com/htmx.org/dist/ext/sse.js"></script>
<style>
table.duell td{width:3em;height:2.2em;text-align:center;border:1px solid #999;font-family:monospace}
td.human{background:#dde8ff} td.computer{background:#ffe0dd} td.key{font-weight:bold} td.keycell{outline:2px solid #c90}
</style>
</head><body>{{template "content" .}}</body></html>`))
	index := template.Must(base.Clone())
	template.Must(index.New("content").Parse(`<h1>Duell</h1>
<p>Roll your dice across the board. Capture the computer's key die or land on its key space to win the round.</p>
{{if .Error}}<div class="alert">{{.Error}}</div>{{end}}
<form action="/game" method="post"><button>New tournament</button></form>
<h2>Continue a saved game</h2>
<form action="/game/import" method="post">
  <textarea name="save" rows="14" cols="48" placeholder="Paste a save file"></textarea><br/>
  <button>Import</button>
</form>
<form action="/game/load" method="post">
  <input name="save_id" placeholder="Save id"/> <button>Load</button>
</form>
{{with .Saves}}<ul class="saves">
{{range .}}  <li><form action="/game/load" method="post"><input type="hidden" name="save_id" value="{{.ID}}"/><button>{{.ID}}</button> saved {{.SavedAt}}</form></li>
{{end}}</ul>{{end}}`))
	game := template.Must(base.Clone())
	template.Must(game.New("content").Parse(`
<h1>Duell</h1>
<div hx-ext="sse" hx-sse="connect:/game/{{.ID}}/events">
  <div id="live" hx-sse="swap:board">{{.Board}}</div>
</div>
<p><a href="/game/{{.ID}}/export">Download save file</a></p>`))
	board := template.Must(template.New("board_only").Funcs(funcs()).Parse(boardTemplate))
	return &templates{base: base, game: game, board: board, index: index}
}

func renderTemplate(t *template.Template, name string, data any) []byte {
	var buf bytes.Buffer
	var err error
	if name == "" {
		err = t.Execute(&buf, data)
	} else {
		err = t.ExecuteTemplate(&buf, name, data)
	}
	if err != nil {
		log.Printf("web: render %s: %v", t.Name(), err)
	}
	return buf.Bytes()
}

const boardTemplate = `
<div id="board">
  {{if .Error}}<div class="alert">{{.Error}}</div>{{end}}
  {{if .Notice}}<div class="notice">{{.Notice}}</div>{{end}}
  <p class="status">{{.Status}}</p>
  <p class="score">Human {{.WinsA}} : {{.WinsB}} Computer</p>
  <table class="duell">
    {{range .Rows}}
    <tr><th>{{.Num}}</th>{{range .Cells}}<td class="{{.Class}}">{{.Label}}</td>{{end}}</tr>
    {{end}}
    <tr><th></th>{{range cols}}<th>{{.}}</th>{{end}}</tr>
  </table>
  {{if .Narration}}<pre class="narration">{{.Narration}}</pre>{{end}}
  {{if .Advice}}<pre class="advice">{{.Advice}}</pre>{{end}}
  <form hx-post="/game/{{.ID}}/play" hx-target="#board" hx-swap="outerHTML" method="post">
    From row <input name="fr" size="1"> col <input name="fc" size="1">
    to row <input name="tr" size="1"> col <input name="tc" size="1">
    <select name="order">
      <option value="">any order</option>
      <option value="frontal">frontally first</option>
      <option value="lateral">laterally first</option>
    </select>
    <button type="submit">Roll</button>
  </form>
  <form hx-post="/game/{{.ID}}/help" hx-target="#board" hx-swap="outerHTML" method="post"><button>Help</button></form>
  <form hx-post="/game/{{.ID}}/save" hx-target="#board" hx-swap="outerHTML" method="post"><button>Save</button></form>
  <form hx-post="/game/{{.ID}}/resume" hx-target="#board" hx-swap="outerHTML" method="post"><button>Resume</button></form>
  {{if .Over}}<form hx-post="/game/{{.ID}}/round" hx-target="#board" hx-swap="outerHTML" method="post"><button>Next round</button></form>{{end}}
  <ol class="history">{{range .History}}<li>{{.}}</li>{{end}}</ol>
</div>
`

type cellView struct {
	Label string
	Class string
}

type rowView struct {
	Num   int
	Cells []cellView
}

// boardView is what the board fragment renders.
type boardView struct {
	ID        string
	Status    string
	WinsA     int
	WinsB     int
	Over      bool
	Rows      []rowView
	Narration string
	Advice    string
	History   []string
	Error     string
	Notice    string
}

func newBoardView(gs app.GameState) boardView {
	g := gs.Game
	v := boardView{
		ID:        gs.ID,
		WinsA:     g.WinsA,
		WinsB:     g.WinsB,
		Over:      g.Over,
		Narration: gs.Narration,
		Advice:    gs.Advice,
		History:   gs.History,
	}
	switch {
	case g.Over:
		v.Status = g.Outcome.String() + "."
	case g.Turn == domain.Unowned:
		v.Status = "Waiting for the toss."
	default:
		v.Status = g.Turn.Name() + " to move."
	}
	// Row 8 is the computer's home row and is drawn at the top.
	for row := domain.Rows; row >= 1; row-- {
		rv := rowView{Num: row}
		for col := 1; col <= domain.Cols; col++ {
			cv := cellView{Label: g.DieLabelAt(row, col)}
			var class []string
			if d, ok := g.Board.DieAt(row, col); ok {
				class = append(class, strings.ToLower(d.Side().Name()))
				if d.IsKey() {
					class = append(class, "key")
				}
			}
			if p := (domain.Pos{Row: row, Col: col}); p == domain.KeyCell(domain.Human) || p == domain.KeyCell(domain.Computer) {
				class = append(class, "keycell")
			}
			cv.Class = strings.Join(class, " ")
			rv.Cells = append(rv.Cells, cv)
		}
		v.Rows = append(v.Rows, rv)
	}
	return v
}

// Helper to set cookie
func ensurePlayerCookie(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie("player_id"); err == nil && c.Value != "" {
		return c.Value
	}
	v := uuid.NewString()
	http.SetCookie(w, &http.Cookie{Name: "player_id", Value: v, Path: "/", HttpOnly: true, SameSite: http.SameSiteLaxMode})
	return v
}
