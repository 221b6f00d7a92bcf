package health

import (
	"encoding/json"
	"fmt"
	"html"
	"strings"
)

// RenderDashboardHTML returns the status page served at GET /. The page refreshes
// itself from /health/json a few times and can open the 5xx log from /health/errors.
func RenderDashboardHTML(health CollectResult) string {
	b, _ := json.Marshal(health)
	jsonStr := string(b)
	// Escape for embedding in a JS template literal: \ ` $
	jsonStr = strings.ReplaceAll(jsonStr, "\\", "\\\\")
	jsonStr = strings.ReplaceAll(jsonStr, "`", "\\`")
	jsonStr = strings.ReplaceAll(jsonStr, "$", "\\$")

	lastReqMethod, lastReqPath := "-", "-"
	if m, ok := health.Traffic.LastRequest.(map[string]interface{}); ok {
		if v, ok := m["method"].(string); ok {
			lastReqMethod = v
		}
		if v, ok := m["path"].(string); ok {
			lastReqPath = v
		}
	}
	issued := "-"
	if health.Certificates.Issued != nil {
		issued = fmt.Sprint(health.Certificates.Issued)
	}

	return `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <title>Certify · API Status</title>
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <style>
    :root { --blue: #1d4ed8; --ink: #0f172a; --muted: #64748b; --bg: #f1f5f9; --bad: #dc2626; }
    * { box-sizing: border-box; }
    body { background: var(--bg); color: var(--ink); font-family: system-ui, sans-serif; margin: 0; min-height: 100vh; display: flex; align-items: center; justify-content: center; }
    .container { width: 100%; max-width: 1000px; padding: 24px; }
    h1 { font-size: clamp(28px, 4vw, 48px); margin: 0 0 8px; letter-spacing: -1px; }
    .subtext { color: var(--muted); margin: 0 0 24px; font-weight: 600; }
    .card { background: #fff; border-radius: 20px; box-shadow: 0 20px 60px -20px rgba(15, 23, 42, 0.2); overflow: hidden; }
    .grid { display: grid; grid-template-columns: repeat(3, 1fr); }
    .col { padding: 32px; border-right: 1px solid #e2e8f0; }
    .col:last-child { border-right: none; }
    .label { text-transform: uppercase; font-size: 11px; font-weight: 800; letter-spacing: 2px; color: #94a3b8; margin-bottom: 16px; }
    .big { font-size: 36px; font-weight: 800; margin-bottom: 8px; }
    .row { display: flex; justify-content: space-between; padding: 6px 0; font-size: 14px; font-weight: 600; border-bottom: 1px solid #f1f5f9; }
    .row:last-child { border-bottom: none; }
    .ok { color: var(--blue); }
    .err { color: var(--bad); }
    .footer { background: #f8fafc; padding: 14px 32px; display: flex; justify-content: space-between; font-family: monospace; font-size: 13px; border-top: 1px solid #e2e8f0; }
    button { margin-top: 20px; background: transparent; border: 1px solid #cbd5e1; border-radius: 8px; padding: 8px 16px; font-weight: 700; cursor: pointer; }
    #errors { display: none; margin-top: 16px; background: #fff; border-radius: 12px; padding: 16px; font-size: 13px; }
    @media (max-width: 800px) { .grid { grid-template-columns: 1fr; } .col { border-right: none; border-bottom: 1px solid #e2e8f0; } }
  </style>
</head>
<body>
  <div class="container">
    <h1 id="headline">All Systems Operational</h1>
    <p class="subtext">Certificate issuance and verification service.</p>
    <div class="card">
      <div class="grid">
        <div class="col">
          <div class="label">Traffic</div>
          <div class="big" id="total-req">` + fmt.Sprint(health.Traffic.TotalRequests) + `</div>
          <div class="row"><span>Failed</span><span id="failed-count" class="err">` + fmt.Sprint(health.Traffic.FailedCount) + `</span></div>
          <div class="row"><span>Success Rate</span><span id="success-rate">` + health.Traffic.SuccessRate + `%</span></div>
          <div class="row"><span>Avg Latency</span><span id="avg-time">` + fmt.Sprint(health.Traffic.AvgResponseTime) + `ms</span></div>
        </div>
        <div class="col">
          <div class="label">Certificates</div>
          <div class="big" id="issued">` + issued + `</div>
          <div class="row"><span>Uptime</span><span id="uptime">` + fmt.Sprint(health.Runtime.UptimeSeconds) + `s</span></div>
          <div class="row"><span>Heap Used</span><span id="mem-heap">` + fmt.Sprint(health.Runtime.Memory.HeapUsed) + ` MB</span></div>
          <div class="row"><span>Platform</span><span>` + html.EscapeString(health.Runtime.Platform) + `</span></div>
        </div>
        <div class="col">
          <div class="label">Connectivity</div>
          <div class="row"><span>Database</span><span id="dep-database">--</span></div>
          <div class="row"><span>Redis</span><span id="dep-redis">--</span></div>
        </div>
      </div>
      <div class="footer">
        <span id="req-method">` + html.EscapeString(lastReqMethod) + `</span>
        <span id="req-path">` + html.EscapeString(lastReqPath) + `</span>
      </div>
    </div>
    <button onclick="showErrors()">View Error Log</button>
    <div id="errors"></div>
  </div>
  <script>
    let left = 3;
    const text = (id, v) => { document.getElementById(id).innerText = v; };
    const updateUI = (d) => {
      text('total-req', d.traffic.totalRequests);
      text('failed-count', d.traffic.failedCount);
      text('success-rate', d.traffic.successRate + '%');
      text('avg-time', d.traffic.avgResponseTime + 'ms');
      text('issued', d.certificates.issued == null ? '-' : d.certificates.issued);
      text('uptime', d.runtime.uptimeSeconds + 's');
      text('mem-heap', d.runtime.memory.heapUsed + ' MB');
      if (d.traffic.lastRequest) { text('req-method', d.traffic.lastRequest.method); text('req-path', d.traffic.lastRequest.path); }
      for (const name of ['database', 'redis']) {
        const dep = d.dependencies[name]; const el = document.getElementById('dep-' + name);
        el.className = dep.status === 'connected' ? 'ok' : 'err';
        el.innerText = dep.status + (dep.pingMs != null ? ' · ' + dep.pingMs + ' ms' : '');
      }
      const hl = document.getElementById('headline');
      hl.innerText = d.status === 'ok' ? 'All Systems Operational' : 'System Issues Detected';
      hl.className = d.status === 'ok' ? '' : 'err';
    };
    async function tick() { if (left <= 0) return; left--; try { const r = await fetch('/health/json'); updateUI(await r.json()); } catch (e) {} }
    async function showErrors() {
      const box = document.getElementById('errors'); box.style.display = 'block'; box.innerText = 'Loading...';
      try {
        const r = await fetch('/health/errors'); const errors = await r.json();
        box.innerText = errors.length === 0 ? 'No internal errors recorded.' : errors.map(e => new Date(e.time).toLocaleString() + '  ' + (e.method || '') + ' ' + (e.path || '') + '  ' + (e.message || '')).join('\n');
      } catch (e) { box.innerText = 'Error loading logs.'; }
    }
    updateUI(JSON.parse(` + "`" + jsonStr + "`" + `));
    setInterval(tick, 10000);
  </script>
</body>
</html>`
}
