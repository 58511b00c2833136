package web

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

const pageHead = `<!doctype html>
<html lang="en">
  <head>
    <meta charset="utf-8"/>
    <meta name="viewport" content="width=device-width, initial-scale=1"/>
    <title>Guess Who</title>
    <style>
      body { font-family: system-ui, sans-serif; margin: 0; background: #f4f1ea; color: #1a1a1a; }
      .shell { max-width: 1100px; margin: 0 auto; padding: 24px; }
      .panel { background: #fff; border-radius: 12px; padding: 16px 20px; margin-bottom: 16px; }
      .grid { display: grid; grid-template-columns: repeat(auto-fill, minmax(120px, 1fr)); gap: 12px; }
      .card { position: relative; border-radius: 10px; overflow: hidden; background: #fff; cursor: pointer; }
      .card img { width: 100%; aspect-ratio: 3 / 4; object-fit: cover; display: block; }
      .card span { display: block; padding: 6px; text-align: center; }
      .card.eliminated img { filter: grayscale(1) opacity(.35); }
      .card.secret { outline: 3px solid #4dabf7; }
      .modal { position: fixed; inset: 0; background: rgba(0,0,0,.45); display: none; align-items: center; justify-content: center; }
      .modal.open { display: flex; }
      .modal .panel { max-width: 360px; }
      button { border: 0; border-radius: 8px; padding: 8px 14px; cursor: pointer; }
      .primary { background: #1a1a1a; color: #fff; }
    </style>
  </head>
  <body>
`

const pageFoot = `  </body>
</html>
`

func Home(data HomeData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if err := write(w, pageHead, `    <main class="shell">
      <header>
        <h1>Guess Who</h1>
        <p>Build a board from your own photos, pick a secret person and start guessing.</p>
      </header>
      <section class="panel">
        <button id="createBoard" class="primary">New board</button>
`); err != nil {
			return err
		}
		if data.ResumeBoardID != "" {
			if err := write(w, `        <a href="/boards/`, esc(data.ResumeBoardID), `">Resume your board</a>
`); err != nil {
				return err
			}
		}
		if err := write(w, `        <div id="createResult"></div>
      </section>
      <section class="panel">
        <h2>Saved boards</h2>
`); err != nil {
			return err
		}
		if len(data.Presets) == 0 {
			if err := write(w, `        <p>No saved boards yet.</p>
`); err != nil {
				return err
			}
		} else {
			if err := write(w, `        <ul>
`); err != nil {
				return err
			}
			for _, preset := range data.Presets {
				if err := write(w, `          <li data-preset-id="`, esc(preset.ID), `">`, esc(preset.Name),
					` <small>`, esc(formatDate(preset.CreatedAt)), `</small></li>
`); err != nil {
					return err
				}
			}
			if err := write(w, `        </ul>
`); err != nil {
				return err
			}
		}
		return write(w, `      </section>
    </main>
    <script>
      document.getElementById("createBoard").addEventListener("click", async () => {
        const out = document.getElementById("createResult");
        out.textContent = "Creating board...";
        const res = await fetch("/api/boards", { method: "POST" });
        const data = await res.json();
        if (!res.ok) {
          out.textContent = data.error || "Failed to create board.";
          return;
        }
        window.location.href = data.url;
      });
    </script>
`, pageFoot)
	})
}
