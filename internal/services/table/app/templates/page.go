package templates

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

const pageStyle = `body{font-family:system-ui,sans-serif;background:#0d1117;color:#e6edf3;margin:0}
header{display:flex;gap:1rem;align-items:center;padding:.75rem 1rem;background:#161b22}
main{display:grid;grid-template-columns:repeat(auto-fill,minmax(18rem,1fr));gap:1rem;padding:1rem}
section{background:#161b22;border-radius:.5rem;padding:.75rem}
.card{border:1px solid #30363d;border-radius:.4rem;padding:.5rem;margin:.5rem 0}
.card.spotlight{border-color:#d29922}
.card.full{border-color:#f85149}
.token{display:inline-block;width:.8rem;height:.8rem;border-radius:50%;border:1px solid #f85149;margin:1px}
.token.on{background:#f85149}
.slot{display:inline-block;width:.8rem;height:.8rem;border:1px solid #8b949e;margin:1px}
.slot.marked{background:#8b949e}
.muted{color:#8b949e}
button{background:#21262d;color:inherit;border:1px solid #30363d;border-radius:.3rem;cursor:pointer}`

const liveScript = `(function(){
var board=document.getElementById("board");
function act(a){return fetch("/api/actions"+location.search,{method:"POST",headers:{"Content-Type":"application/json"},body:a}).then(function(r){return r.json()}).then(function(r){if(r.error){alert(r.error.message)}})}
document.addEventListener("click",function(e){var b=e.target.closest("[data-action]");if(b){act(b.getAttribute("data-action"))}});
function connect(){var p=location.protocol==="https:"?"wss://":"ws://";var ws=new WebSocket(p+location.host+"/ws"+location.search);
ws.onmessage=function(m){var f=JSON.parse(m.data);if(f.type==="table.state"){board.innerHTML=f.payload.html}};
ws.onclose=function(){setTimeout(connect,2000)}}
connect()})()`

// Page renders the full document around the board.
func Page(m Model) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &html{w: w}
		h.raw("<!doctype html>\n<html")
		h.attr("lang", m.Locale)
		h.raw(`><head><meta charset="utf-8"><meta name="viewport" content="width=device-width, initial-scale=1"><title>`)
		h.text(m.View.SessionName)
		h.raw(" | VoidLight</title><style>")
		h.raw(pageStyle)
		h.raw("</style></head><body")
		h.attr("data-mode", m.View.Mode.String())
		h.raw(`><div id="board">`)
		h.render(ctx, Board(m))
		h.raw("</div><script>")
		h.raw(liveScript)
		h.raw("</script></body></html>")
		return h.err
	})
}
