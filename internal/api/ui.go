package api

import "net/http"

// serveDashboard serves the embedded dashboard client.
func (s *Server) serveDashboard(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(dashboardHTML))
}

const dashboardHTML = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Valtheron - Workspace Dashboard</title>
    <style>
        * { box-sizing: border-box; margin: 0; padding: 0; }
        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif;
            background: linear-gradient(135deg, #1a1a2e 0%, #16213e 100%);
            min-height: 100vh;
            color: #fff;
        }
        header {
            display: flex;
            align-items: center;
            justify-content: space-between;
            padding: 16px 24px;
            border-bottom: 1px solid rgba(255,255,255,0.1);
        }
        h1 { font-size: 22px; }
        .conn {
            font-size: 13px;
            padding: 4px 12px;
            border-radius: 12px;
            background: rgba(255,255,255,0.08);
        }
        .conn.connected { color: #22c55e; }
        .conn.connecting { color: #eab308; }
        .conn.failed { color: #ef4444; }
        main { padding: 24px; display: grid; gap: 24px; }
        .stats { display: grid; grid-template-columns: repeat(4, 1fr); gap: 16px; }
        .stat-card {
            background: rgba(255,255,255,0.05);
            border: 1px solid rgba(255,255,255,0.1);
            border-radius: 12px;
            padding: 16px;
            cursor: pointer;
        }
        .stat-card h2 { font-size: 28px; }
        .stat-card p { color: #888; font-size: 13px; text-transform: capitalize; }
        .stat-card .err { color: #ef4444; font-size: 12px; }
        .listing {
            background: rgba(255,255,255,0.04);
            border-radius: 8px;
            margin-top: 8px;
            font-size: 13px;
            display: none;
        }
        .listing.open { display: block; }
        .listing div { padding: 6px 10px; border-top: 1px solid rgba(255,255,255,0.06); }
        .logs {
            background: rgba(0,0,0,0.35);
            border: 1px solid rgba(255,255,255,0.1);
            border-radius: 12px;
            display: flex;
            flex-direction: column;
            height: 480px;
        }
        .logs-toolbar {
            display: flex;
            align-items: center;
            gap: 12px;
            padding: 10px 16px;
            border-bottom: 1px solid rgba(255,255,255,0.1);
        }
        .logs-toolbar select {
            background: #16213e;
            color: #fff;
            border: 1px solid rgba(255,255,255,0.2);
            border-radius: 6px;
            padding: 4px 8px;
        }
        .logs-toolbar .hint { color: #666; font-size: 12px; margin-left: auto; }
        #log-list {
            flex: 1;
            overflow-y: auto;
            font-family: ui-monospace, SFMono-Regular, Menlo, monospace;
            font-size: 12px;
            padding: 8px 0;
        }
        .log-row { display: flex; gap: 10px; padding: 2px 16px; white-space: pre-wrap; }
        .log-row:hover { background: rgba(255,255,255,0.04); }
        .log-ts { color: #555; flex-shrink: 0; }
        .log-src { color: #6366f1; flex-shrink: 0; }
        .log-level { width: 64px; flex-shrink: 0; text-transform: uppercase; font-weight: 600; }
        .log-level.debug { color: #a78bfa; }
        .log-level.info { color: #38bdf8; }
        .log-level.warning { color: #eab308; }
        .log-level.error { color: #ef4444; }
        .log-msg { color: #ddd; }
        .log-row.parse-error .log-msg { color: #999; font-style: italic; }
        .loading { color: #888; padding: 24px; text-align: center; }
    </style>
</head>
<body>
    <header>
        <h1>⚙ Valtheron Workspace</h1>
        <span id="conn" class="conn connecting">connecting…</span>
    </header>
    <main>
        <div id="loading" class="loading">Loading workspace…</div>
        <div id="stats" class="stats" style="display:none;"></div>
        <section class="logs">
            <div class="logs-toolbar">
                <strong>Live Logs</strong>
                <select id="filter">
                    <option value="all">all</option>
                    <option value="debug">debug</option>
                    <option value="info">info</option>
                    <option value="warning">warning</option>
                    <option value="error">error</option>
                </select>
                <span class="hint" id="buffer-hint"></span>
            </div>
            <div id="log-list"></div>
        </section>
    </main>

    <script>
        const MAX_BUFFER = 1000;
        const SCROLL_THRESHOLD = 40; // px from bottom
        const CATEGORIES = ['agents', 'workflows', 'tasks', 'tools'];

        // ---- Log viewer state ----
        const buffer = [];
        let filter = 'all';
        let autoScroll = true;

        const logList = document.getElementById('log-list');
        const connBadge = document.getElementById('conn');

        // Mirror of the server's classifier so malformed records still
        // render with a sensible level. Priority: error/fail, warn,
        // debug, info.
        function inferLevel(text) {
            const lower = (text || '').toLowerCase();
            if (lower.includes('error') || lower.includes('fail')) return 'error';
            if (lower.includes('warn')) return 'warning';
            if (lower.includes('debug')) return 'debug';
            return 'info';
        }

        function effectiveLevel(rec) {
            if (rec.level) return rec.level;
            return inferLevel(rec.message || rec.raw);
        }

        function renderRow(rec) {
            const row = document.createElement('div');
            const level = effectiveLevel(rec);
            row.className = 'log-row' + (rec.parseError ? ' parse-error' : '');
            row.dataset.level = level;

            const ts = document.createElement('span');
            ts.className = 'log-ts';
            ts.textContent = (rec.timestamp || '').replace('T', ' ').replace(/(\.\d+)?(Z|[+-]\d\d:?\d\d)$/, '');
            const src = document.createElement('span');
            src.className = 'log-src';
            src.textContent = rec.source || '';
            const lvl = document.createElement('span');
            lvl.className = 'log-level ' + level;
            lvl.textContent = level;
            const msg = document.createElement('span');
            msg.className = 'log-msg';
            msg.textContent = rec.message || rec.raw || '';

            row.append(ts, src, lvl, msg);
            return row;
        }

        function matchesFilter(rec) {
            return filter === 'all' || effectiveLevel(rec) === filter;
        }

        function rerender() {
            logList.textContent = '';
            for (const rec of buffer) {
                if (matchesFilter(rec)) logList.appendChild(renderRow(rec));
            }
            updateHint();
            if (autoScroll) logList.scrollTop = logList.scrollHeight;
        }

        function updateHint() {
            document.getElementById('buffer-hint').textContent =
                buffer.length + ' buffered' + (autoScroll ? '' : ' · scroll paused');
        }

        function pushRecord(rec) {
            buffer.push(rec);
            let evicted = false;
            while (buffer.length > MAX_BUFFER) {
                buffer.shift();
                evicted = true;
            }
            if (evicted) {
                // Oldest rows left the buffer; rebuild the view.
                rerender();
                return;
            }
            if (matchesFilter(rec)) {
                logList.appendChild(renderRow(rec));
                if (autoScroll) logList.scrollTop = logList.scrollHeight;
            }
            updateHint();
        }

        document.getElementById('filter').addEventListener('change', (e) => {
            filter = e.target.value;
            rerender();
        });

        // Auto-scroll follows the reader: drifting away from the bottom
        // pauses it, coming back within the threshold resumes it.
        logList.addEventListener('scroll', () => {
            const distance = logList.scrollHeight - logList.scrollTop - logList.clientHeight;
            autoScroll = distance <= SCROLL_THRESHOLD;
            updateHint();
        });

        // ---- Push channel ----
        let ws = null;
        let pingTimer = null;

        function setConn(state, label) {
            connBadge.className = 'conn ' + state;
            connBadge.textContent = label || state;
        }

        function connect() {
            setConn('connecting', 'connecting…');
            const proto = location.protocol === 'https:' ? 'wss:' : 'ws:';
            ws = new WebSocket(proto + '//' + location.host + '/ws');

            ws.onopen = () => {
                setConn('connected', 'connected');
                clearInterval(pingTimer);
                pingTimer = setInterval(() => {
                    if (ws.readyState === WebSocket.OPEN) {
                        ws.send(JSON.stringify({ type: 'ping' }));
                    }
                }, 30000);
            };

            ws.onmessage = (event) => {
                let envelope;
                try {
                    envelope = JSON.parse(event.data);
                } catch {
                    return;
                }
                if (envelope.type === 'log' && envelope.data) {
                    pushRecord(envelope.data);
                }
                // "connection" and "pong" envelopes need no UI beyond the badge.
            };

            ws.onclose = () => {
                setConn('failed', 'disconnected');
                clearInterval(pingTimer);
                setTimeout(connect, 3000);
            };

            ws.onerror = () => {
                setConn('failed', 'failed');
            };
        }

        // ---- Dashboard shell ----
        async function fetchJSON(url) {
            const res = await fetch(url);
            if (!res.ok) throw new Error(url + ' -> ' + res.status);
            return res.json();
        }

        function statCard(category, result) {
            const card = document.createElement('div');
            card.className = 'stat-card';

            const count = document.createElement('h2');
            const label = document.createElement('p');
            label.textContent = category;

            const listing = document.createElement('div');
            listing.className = 'listing';

            if (result.status === 'fulfilled') {
                const items = result.value;
                count.textContent = items.length;
                for (const item of items) {
                    const row = document.createElement('div');
                    row.textContent = (item.name || item.filename) +
                        (item.type ? ' · ' + item.type : '') +
                        (item.version ? ' · v' + item.version : '');
                    listing.appendChild(row);
                }
            } else {
                count.textContent = '–';
                const err = document.createElement('span');
                err.className = 'err';
                err.textContent = 'unavailable';
                label.appendChild(document.createTextNode(' '));
                label.appendChild(err);
            }

            card.append(count, label, listing);
            card.addEventListener('click', () => listing.classList.toggle('open'));
            return card;
        }

        async function loadDashboard() {
            // Per-category isolation: one failed fetch must not blank the
            // whole dashboard.
            const [statsResult, ...categoryResults] = await Promise.allSettled([
                fetchJSON('/api/stats'),
                ...CATEGORIES.map((c) => fetchJSON('/api/' + c)),
            ]);

            const stats = document.getElementById('stats');
            categoryResults.forEach((result, i) => {
                stats.appendChild(statCard(CATEGORIES[i], result));
            });

            if (statsResult.status === 'fulfilled') {
                document.title = 'Valtheron - Workspace Dashboard (' +
                    statsResult.value.agents + ' agents)';
            }

            document.getElementById('loading').style.display = 'none';
            stats.style.display = 'grid';
        }

        loadDashboard();
        connect();
        updateHint();
    </script>
</body>
</html>`
