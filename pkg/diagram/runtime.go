package diagram

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// runtimeJS is the generic dispatch runtime. It knows nothing about element
// kinds: behaviours register themselves by kind, configured instances are
// started once the document has loaded, and bindings forward values between
// "id/channel" keys.
const runtimeJS = `
    var sp = (function () {
      var handlers = {}, routes = {}, configs = {}, behaviours = {};
      function key(id, ch) { return id + '/' + ch; }
      function subscribe(id, ch, fn) { (handlers[key(id, ch)] = handlers[key(id, ch)] || []).push(fn); }
      function deliver(k, value) { (handlers[k] || []).forEach(function (fn) { fn(value); }); }
      function publish(id, ch, value) { (routes[key(id, ch)] || []).forEach(function (k) { deliver(k, value); }); }
      function bind(src, out, dst, inp) { (routes[key(src, out)] = routes[key(src, out)] || []).push(key(dst, inp)); }
      function behaviour(kind, fn) { behaviours[kind] = fn; }
      function configure(id, cfg) { configs[id] = cfg; }
      function node(id) { return document.getElementById(id); }
      function start() {
        Object.keys(configs).forEach(function (id) {
          var b = behaviours[configs[id].kind];
          if (b) { b(id, configs[id], sp); }
        });
      }
      return { subscribe: subscribe, publish: publish, bind: bind, behaviour: behaviour,
               configure: configure, node: node, start: start };
    })();`

// writeScript writes the single interactivity block: runtime, behaviours
// (once per kind), per-element configuration, bindings, and the start call
// run on load.
func writeScript(buf *bytes.Buffer, elements []Element, bindings []Binding) error {
	buf.WriteString("  <script type=\"text/javascript\"><![CDATA[")
	buf.WriteString(runtimeJS)
	buf.WriteString("\n")

	seen := make(map[string]bool)
	for _, el := range elements {
		b, ok := el.(Behaviour)
		if !ok {
			continue
		}
		kind, script := b.Behaviour()
		if seen[kind] {
			continue
		}
		seen[kind] = true
		fmt.Fprintf(buf, "    sp.behaviour(%s, function (id, cfg, sp) {%s\n    });\n", strconv.Quote(kind), script)
	}

	for _, el := range elements {
		c, ok := el.(ClientConfigurer)
		if !ok {
			continue
		}
		cfg := c.ClientConfig()
		if cfg == nil {
			continue
		}
		data, err := json.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("client config for %s: %w", el.ID(), err)
		}
		// json.Marshal escapes '>' so the payload cannot close the CDATA section.
		fmt.Fprintf(buf, "    sp.configure(%s, %s);\n", strconv.Quote(el.ID()), data)
	}

	for _, b := range bindings {
		buf.WriteString("    ")
		buf.WriteString(b.Statement())
		buf.WriteString("\n")
	}

	buf.WriteString("    window.addEventListener('load', sp.start);\n")
	buf.WriteString("  ]]></script>\n")
	return nil
}

// sortedByID returns elements ordered by id so generated configuration is
// stable across runs.
func sortedByID(live map[string]Element) []Element {
	out := make([]Element, 0, len(live))
	for _, el := range live {
		out = append(out, el)
	}
	slices.SortFunc(out, func(a, b Element) int { return strings.Compare(a.ID(), b.ID()) })
	return out
}
