package page

import (
	"html/template"
	"io"
)

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Near-Earth Objects</title>
<style>
body { font-family: sans-serif; margin: 0 1rem; }
.neo-entry { display: flex; flex-wrap: wrap; border-bottom: 1px solid #ccc; }
.neo-info, .neo-visual { flex: 1 1 50%; min-width: 0; }
.neo-visual img { display: block; width: 100%; height: 100%; }
@media (max-width: {{.Breakpoint}}px) {
  .neo-info, .neo-visual { flex-basis: 100%; }
}
</style>
</head>
<body>
<header>
<h1>Near-Earth Objects</h1>
<p>Fetch date: <span id="fetchDate">{{.FetchDate}}</span></p>
<p id="neoCount">{{.CountLabel}}</p>
</header>
<main id="neo-data-container">
{{- range .Entries}}
<section class="neo-entry">
<div class="neo-info">{{.Panel.HTML}}</div>
<div class="neo-visual" id="{{.SlotID}}" data-neo-id="{{.NeoID}}" style="width: {{.Width}}px; height: {{.Height}}px"><img alt="{{.Panel.Name}}"></div>
</section>
{{- end}}
</main>
<script>
(function () {
  function viewport() {
    return { width: window.innerWidth, height: window.innerHeight, pixel_ratio: window.devicePixelRatio || 1 };
  }
  function resize() {
    fetch("/api/viewport", { method: "POST", headers: { "Content-Type": "application/json" }, body: JSON.stringify(viewport()) });
  }
  window.addEventListener("resize", resize);
  resize();
  document.querySelectorAll(".neo-visual").forEach(function (slot) {
    var img = slot.querySelector("img");
    var proto = location.protocol === "https:" ? "wss:" : "ws:";
    var ws = new WebSocket(proto + "//" + location.host + "/api/neos/" + encodeURIComponent(slot.dataset.neoId) + "/stream");
    ws.binaryType = "blob";
    ws.onmessage = function (ev) {
      var url = URL.createObjectURL(ev.data);
      img.onload = function () { URL.revokeObjectURL(url); };
      img.src = url;
    };
  });
})();
</script>
</body>
</html>
`))

type entryView struct {
	Entry
	Width, Height int
}

type pageView struct {
	FetchDate  string
	CountLabel string
	Breakpoint int
	Entries    []entryView
}

// WriteHTML renders the page document. Entries whose slot was removed render
// with a zero-sized visual area.
func (p *Page) WriteHTML(w io.Writer) error {
	view := pageView{
		FetchDate:  p.FetchDate(),
		CountLabel: p.CountLabel(),
		Breakpoint: p.breakpoint - 1,
	}
	for _, e := range p.Entries() {
		ev := entryView{Entry: e}
		if s, ok := p.Slot(e.NeoID); ok {
			ev.Width, ev.Height = s.Width, s.Height
		}
		view.Entries = append(view.Entries, ev)
	}
	return pageTemplate.Execute(w, view)
}
