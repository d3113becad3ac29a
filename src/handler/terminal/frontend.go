package terminal

// GetTerminalHTML returns the xterm.js page that drives a session over
// /terminal/ws. The shell is picked with ?shell=cmd|powershell.
func GetTerminalHTML() string {
	return `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Windows Terminal</title>
    <link rel="stylesheet" href="https://cdn.jsdelivr.net/npm/@xterm/xterm@5.5.0/css/xterm.css">
    <style>
        * {
            margin: 0;
            padding: 0;
            box-sizing: border-box;
        }
        html, body {
            height: 100%;
            width: 100%;
            overflow: hidden;
            background: #0c0c0c;
        }
        #terminal {
            height: 100%;
            width: 100%;
        }
        .xterm {
            height: 100%;
            padding: 8px;
        }
        #connection-status {
            position: fixed;
            top: 8px;
            right: 8px;
            padding: 4px 12px;
            border-radius: 4px;
            font-family: monospace;
            font-size: 12px;
            z-index: 1000;
            transition: opacity 0.3s;
        }
        .status-connecting {
            background: #e0af68;
            color: #0c0c0c;
        }
        .status-connected {
            background: #9ece6a;
            color: #0c0c0c;
            opacity: 0;
        }
        .status-disconnected {
            background: #f7768e;
            color: #0c0c0c;
        }
    </style>
</head>
<body>
    <div id="connection-status" class="status-connecting">Connecting...</div>
    <div id="terminal"></div>

    <script src="https://cdn.jsdelivr.net/npm/@xterm/xterm@5.5.0/lib/xterm.min.js"></script>
    <script src="https://cdn.jsdelivr.net/npm/@xterm/addon-fit@0.10.0/lib/addon-fit.min.js"></script>
    <script src="https://cdn.jsdelivr.net/npm/@xterm/addon-web-links@0.11.0/lib/addon-web-links.min.js"></script>
    <script>
        const statusEl = document.getElementById('connection-status');

        function setStatus(status, text) {
            statusEl.className = 'status-' + status;
            statusEl.textContent = text;
        }

        // Campbell, the Windows Terminal default scheme
        const theme = {
            background: '#0c0c0c',
            foreground: '#cccccc',
            cursor: '#ffffff',
            cursorAccent: '#0c0c0c',
            selectionBackground: '#264f78',
            black: '#0c0c0c',
            red: '#c50f1f',
            green: '#13a10e',
            yellow: '#c19c00',
            blue: '#0037da',
            magenta: '#881798',
            cyan: '#3a96dd',
            white: '#cccccc',
            brightBlack: '#767676',
            brightRed: '#e74856',
            brightGreen: '#16c60c',
            brightYellow: '#f9f1a5',
            brightBlue: '#3b78ff',
            brightMagenta: '#b4009e',
            brightCyan: '#61d6d6',
            brightWhite: '#f2f2f2'
        };

        const term = new Terminal({
            cursorBlink: true,
            cursorStyle: 'block',
            fontSize: 14,
            fontFamily: '"Cascadia Mono", Consolas, "Courier New", monospace',
            theme: theme,
            allowProposedApi: true
        });

        const fitAddon = new FitAddon.FitAddon();
        const webLinksAddon = new WebLinksAddon.WebLinksAddon();

        term.loadAddon(fitAddon);
        term.loadAddon(webLinksAddon);
        term.open(document.getElementById('terminal'));
        fitAddon.fit();

        // Build WebSocket URL
        const protocol = window.location.protocol === 'https:' ? 'wss:' : 'ws:';
        const urlParams = new URLSearchParams(window.location.search);
        const shell = urlParams.get('shell') || 'powershell';
        const wsUrl = protocol + '//' + window.location.host + '/terminal/ws';
        const storageKey = 'win11web-terminal-' + shell;
        let sessionId = urlParams.get('session') || sessionStorage.getItem(storageKey) || '';

        let ws = null;
        let reconnectAttempts = 0;
        const maxReconnectAttempts = 5;

        function send(msg) {
            if (ws && ws.readyState === WebSocket.OPEN) {
                msg.sessionId = sessionId;
                ws.send(JSON.stringify(msg));
            }
        }

        function connect() {
            setStatus('connecting', 'Connecting...');
            ws = new WebSocket(wsUrl);

            ws.onopen = function() {
                reconnectAttempts = 0;
                send({ type: 'create-session', shell: shell, cols: term.cols, rows: term.rows });
            };

            ws.onmessage = function(event) {
                try {
                    const msg = JSON.parse(event.data);
                    switch (msg.type) {
                    case 'session-created':
                        sessionId = msg.sessionId;
                        sessionStorage.setItem(storageKey, sessionId);
                        setStatus('connected', 'Connected');
                        sendResize();
                        term.focus();
                        break;
                    case 'output':
                        term.write(msg.data);
                        break;
                    case 'session-destroyed':
                        sessionStorage.removeItem(storageKey);
                        term.write('\r\n\x1b[33m[session ended]\x1b[0m\r\n');
                        break;
                    case 'error':
                        term.write('\r\n\x1b[31mError: ' + msg.error + '\x1b[0m\r\n');
                        break;
                    }
                } catch (e) {
                    console.error('Failed to parse message:', e);
                }
            };

            ws.onclose = function() {
                setStatus('disconnected', 'Disconnected');
                if (reconnectAttempts < maxReconnectAttempts) {
                    reconnectAttempts++;
                    setTimeout(connect, 1000 * reconnectAttempts);
                } else {
                    term.write('\r\n\x1b[31mConnection lost. Refresh the page to reconnect.\x1b[0m\r\n');
                }
            };

            ws.onerror = function(error) {
                console.error('WebSocket error:', error);
            };
        }

        // Handle terminal input
        term.onData(function(data) {
            send({ type: 'input', data: data });
        });

        // Handle terminal resize
        function sendResize() {
            send({ type: 'resize', cols: term.cols, rows: term.rows });
        }

        window.addEventListener('resize', function() {
            fitAddon.fit();
            sendResize();
        });

        // Initial connection
        connect();
    </script>
</body>
</html>`
}
