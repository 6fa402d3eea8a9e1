package devserver

import (
	"html/template"
	"io"
)

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
</head>
<body>
<div id="root">{{.Body}}</div>
<script>
(function() {
    'use strict';

    var root = document.getElementById('root');
    var protocol = location.protocol === 'https:' ? 'wss:' : 'ws:';
    var ws = new WebSocket(protocol + '//' + location.host + '/ws');

    ws.onmessage = function(e) {
        var msg;
        try {
            msg = JSON.parse(e.data);
        } catch (err) {
            return;
        }
        if (msg.type === 'render') {
            root.innerHTML = msg.html;
        } else if (msg.type === 'error') {
            console.error('[vstore]', msg.error);
        }
    };

    root.addEventListener('click', function(e) {
        var el = e.target.closest('[id]');
        if (el && ws.readyState === WebSocket.OPEN) {
            ws.send(JSON.stringify({type: 'click', id: el.id}));
        }
    });
})();
</script>
</body>
</html>
`))

func writePage(w io.Writer, title, body string) error {
	return pageTemplate.Execute(w, struct {
		Title string
		Body  template.HTML
	}{
		Title: title,
		Body:  template.HTML(body),
	})
}
