package templates

import (
	"context"
	"io"
	"strconv"
	"strings"

	"github.com/a-h/templ"

	"github.com/louisbranch/voidlight/internal/services/table/domain"
)

// Board renders the live part of the page. It is what the websocket pushes
// after every change.
func Board(m Model) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		h := &html{w: w}
		v := m.View
		h.raw("<header><h1>")
		h.text(v.SessionName)
		h.raw("</h1>")
		fearTrack(h, m)
		h.raw(`<span class="muted">`)
		if m.keeper() {
			h.text(m.label("keeper_view"))
		} else {
			h.text(m.label("player_view"))
		}
		h.raw("</span></header><main")
		h.attr("data-version", strconv.FormatUint(m.Version, 10))
		h.raw(">")

		spotlight(h, m)
		currentScene(h, m)
		if pinned := v.Pinned(); len(pinned) > 0 {
			h.raw(`<section id="dashboard"><h2>`)
			h.text(m.label("dashboard"))
			h.raw("</h2>")
			for _, c := range pinned {
				card(h, m, c)
			}
			h.raw("</section>")
		}
		for _, k := range domain.Kinds {
			roster(h, m, k)
		}
		clocks(h, m)
		diceRoller(h, m)
		if m.keeper() && v.Notes != "" {
			h.raw(`<section id="notes"><h2>`)
			h.text(m.label("notes"))
			h.raw("</h2><p>")
			h.text(v.Notes)
			h.raw("</p></section>")
		}
		h.raw("</main>")
		return h.err
	})
}

func fearTrack(h *html, m Model) {
	h.raw(`<div class="fear"><strong>`)
	h.text(m.label("fear"))
	h.raw("</strong> ")
	for i := 0; i < m.View.MaxFear; i++ {
		if i < m.View.Fear {
			h.raw(`<span class="token on"></span>`)
		} else {
			h.raw(`<span class="token"></span>`)
		}
	}
	h.raw(" ")
	h.num(m.View.Fear)
	h.raw("/")
	h.num(m.View.MaxFear)
	if m.keeper() {
		button(h, "-", map[string]any{"type": "fear.adjust", "delta": -1})
		button(h, "+", map[string]any{"type": "fear.adjust", "delta": 1})
	}
	h.raw("</div>")
}

func spotlight(h *html, m Model) {
	if m.View.Spotlight == nil {
		return
	}
	h.raw(`<section id="spotlight"><h2>`)
	h.text(m.label("spotlight"))
	h.raw("</h2>")
	card(h, m, *m.View.Spotlight)
	if m.keeper() {
		button(h, "×", map[string]any{"type": "spotlight.clear"})
	}
	h.raw("</section>")
}

func currentScene(h *html, m Model) {
	h.raw(`<section id="scene"><h2>`)
	h.text(m.label("current_scene"))
	h.raw("</h2>")
	sc := m.View.CurrentScene
	if sc == nil {
		h.raw(`<p class="muted">`)
		h.text(m.label("no_scene"))
		h.raw("</p></section>")
		return
	}
	h.raw("<h3>")
	h.text(sc.Name)
	h.raw(`</h3><p class="muted">`)
	h.text(sc.Location)
	h.raw("</p>")
	if sc.Details.Atmosphere != "" {
		h.raw("<p><em>")
		h.text(sc.Details.Atmosphere)
		h.raw("</em></p>")
	}
	if env := sc.Environment; env.Macro != "" || env.Micro != "" {
		h.raw("<p><strong>")
		h.text(m.label("environment"))
		h.raw("</strong> ")
		if env.Macro != "" {
			h.text(env.Macro)
			h.rawf(" (T%d, DC %d)", env.MacroTier, env.MacroDC)
		}
		if env.Micro != "" {
			h.raw(" / ")
			h.text(env.Micro)
			h.rawf(" (T%d, DC %d)", env.MicroTier, env.MicroDC)
		}
		if env.Modifier != "" {
			h.raw(" · ")
			h.text(env.Modifier)
		}
		h.raw("</p>")
	}
	list(h, m.label("objectives"), sc.Details.Objectives)
	if len(sc.Present) > 0 {
		h.raw("<p><strong>")
		h.text(m.label("present"))
		h.raw("</strong> ")
		h.text(strings.Join(sc.Present, ", "))
		h.raw("</p>")
	}
	if m.keeper() && sc.Notes != "" {
		h.raw(`<p class="muted">`)
		h.text(sc.Notes)
		h.raw("</p>")
	}
	if m.keeper() && len(m.View.Scenes) > 1 {
		h.raw("<p>")
		for _, other := range m.View.Scenes {
			if other.Current {
				continue
			}
			button(h, other.Name, map[string]any{"type": "scene.current", "id": other.ID})
		}
		h.raw("</p>")
	}
	h.raw("</section>")
}

func list(h *html, title string, items []string) {
	if len(items) == 0 {
		return
	}
	h.raw("<p><strong>")
	h.text(title)
	h.raw("</strong></p><ul>")
	for _, item := range items {
		h.raw("<li>")
		h.text(item)
		h.raw("</li>")
	}
	h.raw("</ul>")
}

func roster(h *html, m Model, k domain.Kind) {
	chars := m.View.Roster(k)
	h.raw("<section")
	h.attr("id", string(k.Section()))
	h.raw("><h2>")
	h.text(m.label(string(k.Section())))
	h.raw("</h2>")
	if m.keeper() && len(chars) > 0 {
		button(h, m.label("pin_all"), map[string]any{"type": "character.pinAll", "kind": string(k)})
		button(h, m.label("unpin_all"), map[string]any{"type": "character.unpinAll", "kind": string(k)})
	}
	for _, c := range chars {
		card(h, m, c)
	}
	h.raw("</section>")
}

func card(h *html, m Model, c domain.CharacterView) {
	class := "card"
	if c.Spotlight {
		class += " spotlight"
	}
	h.raw("<article")
	h.attr("class", class)
	h.attr("data-kind", string(c.Kind))
	h.attr("data-id", c.ID.String())
	h.raw("><h3>")
	h.text(c.Name)
	if c.Hidden && m.keeper() {
		h.raw(` <small class="muted">(`)
		h.text(m.label("hidden"))
		h.raw(")</small>")
	}
	h.raw("</h3>")
	if sub := firstNonEmpty(c.Subtitle, c.Type); sub != "" {
		h.raw(`<p class="muted">`)
		h.text(sub)
		h.raw("</p>")
	}

	ref := map[string]any{"kind": c.Kind, "id": c.ID}
	track(h, m, m.label("hp"), c.HP, c.MaxHP, "character.hp", ref)
	track(h, m, m.label("stress"), c.Stress, c.MaxStress, "character.stress", ref)
	if c.Role.HasHope() {
		track(h, m, m.label("hope"), c.Hope, c.HopeCap, "hope.adjust", ref)
	}

	h.raw("<p>")
	h.text(m.label("armor"))
	h.raw(" ")
	marked := make(map[int]bool, len(c.ArmorMarked))
	for _, i := range c.ArmorMarked {
		marked[i] = true
	}
	for i := 0; i < c.ArmorSlots; i++ {
		class := "slot"
		if marked[i] {
			class += " marked"
		}
		if m.keeper() {
			h.raw("<button")
			h.attr("class", class)
			h.attr("data-action", actionJSON(with(ref, "type", "character.armor", "index", i)))
			h.raw("></button>")
		} else {
			h.raw("<span")
			h.attr("class", class)
			h.raw("></span>")
		}
	}
	h.rawf(" %d/%d/%d · ", c.Armor, c.ArmorMinor, c.ArmorSevere)
	h.text(m.label("evasion"))
	h.rawf(" %d</p>", c.Evasion)

	if len(c.Abilities) > 0 {
		h.raw("<ul>")
		for i, a := range c.Abilities {
			h.raw("<li><strong>")
			h.text(a.Name)
			h.raw("</strong> <small>")
			h.text(string(a.Category))
			if c.ShowCosts && a.Cost > 0 {
				h.rawf(" · %d ", a.Cost)
				h.text(string(c.CostResource))
			}
			h.raw("</small> ")
			h.text(a.Desc)
			if m.keeper() && a.Cost > 0 {
				button(h, "▶", with(ref, "type", "ability.use", "index", i))
			}
			h.raw("</li>")
		}
		h.raw("</ul>")
	}
	if c.QuickNote != "" {
		h.raw(`<p class="muted">`)
		h.text(c.QuickNote)
		h.raw("</p>")
	}
	if m.keeper() && c.KeeperNotes != "" {
		h.raw(`<details><summary>…</summary>`)
		h.text(c.KeeperNotes)
		h.raw("</details>")
	}
	if m.keeper() {
		h.raw("<p>")
		button(h, m.label("spotlight"), with(ref, "type", "spotlight.set"))
		button(h, "📌", with(ref, "type", "character.pin"))
		button(h, "👁", with(ref, "type", "character.hide"))
		h.raw("</p>")
	}
	h.raw("</article>")
}

func track(h *html, m Model, label string, value, max int, action string, ref map[string]any) {
	h.raw("<p>")
	h.text(label)
	h.rawf(" %d/%d", value, max)
	if m.keeper() {
		button(h, "-", with(ref, "type", action, "delta", -1))
		button(h, "+", with(ref, "type", action, "delta", 1))
	}
	h.raw("</p>")
}

func clocks(h *html, m Model) {
	if len(m.View.Clocks) == 0 {
		return
	}
	h.raw(`<section id="clocks"><h2>`)
	h.text(m.label("clocks"))
	h.raw("</h2>")
	for _, c := range m.View.Clocks {
		if c.Full() {
			h.raw(`<div class="card full"`)
		} else {
			h.raw(`<div class="card"`)
		}
		h.attr("data-id", c.ID.String())
		h.raw("><strong>")
		h.text(c.Name)
		h.raw("</strong> ")
		for i := 0; i < c.Segments; i++ {
			if i < c.Filled {
				h.raw(`<span class="slot marked"></span>`)
			} else {
				h.raw(`<span class="slot"></span>`)
			}
		}
		h.rawf(" %d/%d", c.Filled, c.Segments)
		if m.keeper() {
			button(h, "-", map[string]any{"type": "clock.adjust", "id": c.ID, "delta": -1})
			button(h, "+", map[string]any{"type": "clock.adjust", "id": c.ID, "delta": 1})
		}
		h.raw("</div>")
	}
	h.raw("</section>")
}

func diceRoller(h *html, m Model) {
	d := m.View.Dice
	h.raw(`<section id="dice"><h2>`)
	h.text(m.label("dice"))
	h.raw("</h2><p>")
	h.text(m.label("difficulty"))
	h.rawf(" %d · ", d.Difficulty)
	h.text(m.label("modifier"))
	h.rawf(" %+d · ", d.Modifier)
	h.text(string(d.Advantage))
	h.raw("</p>")
	if m.keeper() {
		h.raw("<p>")
		button(h, "Duality", map[string]any{"type": "dice.duality"})
		button(h, "d20", map[string]any{"type": "dice.d20"})
		h.raw("</p>")
	}
	if d.Results != nil {
		h.raw(`<p class="result">`)
		rollLine(h, *d.Results)
		h.raw("</p>")
	}
	if len(d.RollHistory) > 0 {
		h.raw("<h3>")
		h.text(m.label("history"))
		h.raw("</h3><ol>")
		for _, r := range d.RollHistory {
			h.raw("<li>")
			rollLine(h, r)
			h.raw("</li>")
		}
		h.raw("</ol>")
	}
	h.raw("</section>")
}

func rollLine(h *html, r domain.RollRecord) {
	switch r.Type {
	case domain.RollDualityType:
		h.rawf("Hope %d · Fear %d", r.Hope, r.Fear)
		if r.AdvDie != 0 {
			h.rawf(" · d6 %d", r.AdvDie)
		}
		h.rawf(" = %d vs %d: ", r.Total, r.Difficulty)
		h.text(r.Outcome.String())
	case domain.RollD20Type:
		h.rawf("d20 %d%+d = %d", r.Roll, r.Modifier, r.Total)
	case domain.RollDamageType:
		h.text(r.Dice)
		h.rawf(" %v%+d = %d", r.Rolls, r.Modifier, r.Total)
	}
	if r.Timestamp != "" {
		h.raw(` <small class="muted">`)
		h.text(r.Timestamp)
		h.raw("</small>")
	}
}

func button(h *html, label string, action map[string]any) {
	h.raw("<button")
	h.attr("data-action", actionJSON(action))
	h.raw(">")
	h.text(label)
	h.raw("</button>")
}

func with(base map[string]any, kv ...any) map[string]any {
	out := make(map[string]any, len(base)+len(kv)/2)
	for k, v := range base {
		out[k] = v
	}
	for i := 0; i+1 < len(kv); i += 2 {
		out[kv[i].(string)] = kv[i+1]
	}
	return out
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
