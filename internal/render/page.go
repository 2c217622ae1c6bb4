package render

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/maruten0420/REDZONE-history/internal/document"
	"github.com/maruten0420/REDZONE-history/internal/hover"
	"github.com/maruten0420/REDZONE-history/internal/style"
	"github.com/maruten0420/REDZONE-history/internal/timeline"
)

// PageData feeds the editor page template.
type PageData struct {
	Category   document.Category
	Categories []document.Category
	Zoom       float64
	MinZoom    float64
	MaxZoom    float64
	ZoomStep   float64
	SVG        template.HTML
	Sheet      *style.Sheet

	// Long-press thresholds in milliseconds, handed to the touch script
	// so its follow-up query lands after the server timer fires.
	CardPressMS int64
	ConnPressMS int64
}

// Page renders the editor shell around a server-rendered SVG column. The
// embedded script only reports raw input (pointer coordinates, element
// sizes) and applies positions the server computes; all document and
// interaction state lives in Go.
func Page(data PageData) (string, error) {
	var buf bytes.Buffer
	if err := pageTmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("editor page: %w", err)
	}
	return buf.String(), nil
}

// NewPageData fills the zoom slider bounds.
func NewPageData(cat document.Category, zoom float64, svg string, sheet *style.Sheet) PageData {
	return PageData{
		Category:    cat,
		Categories:  document.Categories(),
		Zoom:        zoom,
		MinZoom:     timeline.MinZoom,
		MaxZoom:     timeline.MaxZoom,
		ZoomStep:    timeline.ZoomStep,
		SVG:         template.HTML(svg),
		Sheet:       sheet,
		CardPressMS: hover.CardPressDelay.Milliseconds(),
		ConnPressMS: hover.ConnectorPressDelay.Milliseconds(),
	}
}

var pageTmpl = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width,initial-scale=1">
<title>REDZONE history</title>
<style>
*{box-sizing:border-box;margin:0;padding:0}
body{font-family:sans-serif;background:{{.Sheet.Page.Background}};color:{{.Sheet.Page.Text}};font-size:13px}
nav{display:flex;gap:12px;align-items:center;padding:8px 16px;border-bottom:1px solid {{.Sheet.Axis.Line}}}
nav .brand{font-weight:700;color:#f0f6fc;margin-right:8px}
nav a{color:{{.Sheet.Page.Subtle}};text-decoration:none;padding:4px 8px;border-radius:4px}
nav a.active{background:#1f6feb;color:#fff}
nav .zoom{margin-left:auto;display:flex;gap:6px;align-items:center;color:{{.Sheet.Page.Subtle}}}
nav button{background:#21262d;color:{{.Sheet.Page.Text}};border:1px solid {{.Sheet.Axis.Line}};border-radius:4px;padding:4px 10px;cursor:pointer}
#timeline{overflow-y:auto;height:calc(100vh - 45px)}
.card{cursor:pointer}
.card.unlocked{cursor:grab}
.card.dragging{cursor:grabbing}
.card.raised rect{stroke-width:3}
#popover{position:fixed;display:none;max-width:320px;background:#21262d;border:1px solid {{.Sheet.Axis.Line}};border-radius:6px;padding:10px;pointer-events:none;z-index:10}
</style>
</head>
<body>
<nav>
  <span class="brand">REDZONE history</span>
  {{$cur := .Category}}{{$zoom := .Zoom}}{{range .Categories}}
  <a href="/?category={{.}}&zoom={{$zoom}}" {{if eq . $cur}}class="active"{{end}}>{{.}}</a>
  {{end}}
  <span class="zoom">
    zoom <input id="zoom" type="range" min="{{.MinZoom}}" max="{{.MaxZoom}}" step="{{.ZoomStep}}" value="{{.Zoom}}">
  </span>
  <button id="new">new event</button>
  <a href="/api/export" download="history.json">export</a>
</nav>
<div id="timeline" data-category="{{.Category}}">{{.SVG}}</div>
<div id="popover"></div>
<script>
(function () {
  var category = document.getElementById('timeline').dataset.category;
  var zoom = {{.Zoom}};

  function post(path, body) {
    return fetch(path, {
      method: 'POST',
      headers: {'Content-Type': 'application/json'},
      body: JSON.stringify(body)
    }).then(function (r) { return r.ok ? r.json() : null; });
  }
  function reload() {
    location.href = '/?category=' + category + '&zoom=' + zoom;
  }

  // Report container width and card heights whenever anything resizes.
  function report() {
    var heights = {};
    document.querySelectorAll('g.card').forEach(function (g) {
      heights[g.dataset.id] = g.querySelector('rect').getBBox().height;
    });
    post('/api/measure', {
      category: category,
      containerWidth: document.getElementById('timeline').clientWidth,
      heights: heights
    });
  }
  new ResizeObserver(report).observe(document.getElementById('timeline'));
  report();

  // Touch long-presses arm a server timer; the follow-up query, sent just
  // after the threshold, learns whether the press promoted.
  var pressTimer = null;
  function armPress(body, delay, apply) {
    post('/api/hover', body);
    pressTimer = setTimeout(function () {
      pressTimer = null;
      post('/api/hover', {type: 'query'}).then(apply);
    }, delay + 60);
  }
  function endPress(type) {
    if (pressTimer) { clearTimeout(pressTimer); pressTimer = null; }
    post('/api/hover', {type: type});
    hidePopover();
    emphasize(null);
  }

  var dragging = null;
  var touching = false;
  document.querySelectorAll('g.card').forEach(function (g) {
    var id = g.dataset.id;

    g.addEventListener('dblclick', function (e) {
      e.preventDefault();
      post('/api/gesture', {type: 'lock', id: id, category: category}).then(function (s) {
        g.classList.toggle('unlocked', s && s.state === 'unlocked');
        g.classList.add('raised');
      });
    });

    g.addEventListener('pointerdown', function (e) {
      if (e.pointerType === 'touch') {
        touching = true;
        armPress({type: 'card-press', id: id}, {{.CardPressMS}}, showPopover);
      }
      post('/api/gesture', {type: 'down', id: id, x: e.clientX, category: category}).then(function (s) {
        if (s && s.state === 'dragging') { dragging = {id: id, el: g}; }
      });
    });

    g.addEventListener('mouseenter', function () {
      if (touching) return;
      post('/api/hover', {type: 'card-enter', id: id}).then(showPopover);
    });
    g.addEventListener('mouseleave', function () {
      if (touching) return;
      post('/api/hover', {type: 'card-leave'});
      hidePopover();
    });
  });

  document.addEventListener('pointermove', function (e) {
    // A moving finger is a scroll or a drag, not a long-press.
    if (pressTimer) { endPress('cancel'); }
    if (!dragging) return;
    post('/api/gesture', {type: 'move', id: dragging.id, x: e.clientX, category: category}).then(function (s) {
      if (s) {
        dragging.el.setAttribute('transform', 'translate(' + s.left + ' ' + s.top + ')');
      }
    });
  });

  // Release listener is document-global: the drop commits wherever the
  // pointer ends up.
  document.addEventListener('pointerup', function (e) {
    if (e.pointerType === 'touch') {
      touching = false;
      endPress('release');
    }
    if (!dragging) return;
    var id = dragging.id;
    dragging = null;
    post('/api/gesture', {type: 'up', id: id, category: category}).then(reload);
  });

  document.querySelectorAll('path.conn-hit').forEach(function (p) {
    p.addEventListener('pointerdown', function (e) {
      if (e.pointerType !== 'touch') return;
      touching = true;
      armPress({type: 'conn-press', source: p.dataset.source, target: p.dataset.target},
        {{.ConnPressMS}}, emphasize);
    });
    p.addEventListener('mouseenter', function () {
      if (touching) return;
      post('/api/hover', {type: 'conn-enter', source: p.dataset.source, target: p.dataset.target}).then(emphasize);
    });
    p.addEventListener('mouseleave', function () {
      if (touching) return;
      post('/api/hover', {type: 'conn-leave'});
      emphasize(null);
    });
  });

  function emphasize(s) {
    document.querySelectorAll('g.card').forEach(function (g) {
      var hit = s && (g.dataset.id === s.source || g.dataset.id === s.target);
      g.classList.toggle('raised', !!hit);
    });
  }

  var pop = document.getElementById('popover');
  function showPopover(s) {
    if (!s || !s.title) return;
    pop.textContent = s.title + (s.description ? ': ' + s.description : '');
    pop.style.display = 'block';
  }
  function hidePopover() { pop.style.display = 'none'; }
  document.addEventListener('mousemove', function (e) {
    pop.style.left = (e.clientX + 14) + 'px';
    pop.style.top = (e.clientY + 14) + 'px';
  });

  document.getElementById('zoom').addEventListener('change', function (e) {
    zoom = e.target.value;
    reload();
  });

  document.getElementById('new').addEventListener('click', function () {
    var title = prompt('Title for the new event?');
    if (title === null) return;
    post('/api/events', {title: title, category: category}).then(reload);
  });

  // One-shot scroll to the first card shortly after load, once the first
  // measurement round trip has settled.
  setTimeout(function () {
    var first = document.querySelector('g.card');
    if (!first) return;
    var m = /translate\([-\d.]+ ([-\d.]+)\)/.exec(first.getAttribute('transform'));
    if (!m) return;
    document.getElementById('timeline').scrollTo({
      top: Math.max(0, parseFloat(m[1]) - 60),
      behavior: 'smooth'
    });
  }, 500);
})();
</script>
</body>
</html>
`))
