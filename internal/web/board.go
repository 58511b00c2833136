package web

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// BoardView is the single-page client for one board. All state lives on the
// server; the page renders the snapshots pushed over the websocket.
func BoardView(boardID string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return write(w, pageHead, `    <main class="shell" data-board-id="`, esc(boardID), `">
      <header class="panel">
        <strong id="phase"></strong>
        <span id="counts"></span>
        <img id="share" alt="Share this board" width="96" height="96" src="/api/boards/`, esc(boardID), `/share.png?size=192"/>
      </header>
      <section class="panel" id="setupTools">
        <input type="file" id="picker" accept="image/*" multiple/>
        <button id="fill">Fill with random people</button>
        <button id="clear">Clear</button>
        <button id="start" class="primary">Done, pick a secret</button>
        <input id="presetName" placeholder="Preset name"/>
        <button id="save">Save board</button>
        <select id="presetList"></select>
        <button id="load">Load</button>
      </section>
      <section class="panel" id="playTools">
        <button id="confirmSecret" class="primary">Confirm secret</button>
        <button id="softReset">New round</button>
        <button id="hardReset">New setup</button>
        <div id="secret"></div>
      </section>
      <section class="grid" id="cards"></section>
    </main>
    <div class="modal" id="intake">
      <form class="panel" id="intakeForm">
        <h3>Who is this?</h3>
        <img id="intakeImage" alt="" style="max-width: 100%"/>
        <input id="intakeName" autocomplete="off"/>
        <button type="submit" class="primary">Add</button>
        <button type="button" id="intakeCancel">Cancel</button>
        <small id="intakeLeft"></small>
      </form>
    </div>
    <div class="modal" id="confirm">
      <div class="panel">
        <p>Start over with an empty board?</p>
        <button id="confirmYes" class="primary">Yes</button>
        <button id="confirmNo">No</button>
      </div>
    </div>
    <script>
      const boardID = document.querySelector("main").dataset.boardId;
      const api = "/api/boards/" + boardID;
      const $ = (id) => document.getElementById(id);
      let state = null;

      async function call(method, path, body) {
        const res = await fetch(api + path, {
          method,
          headers: body ? { "Content-Type": "application/json" } : {},
          body: body ? JSON.stringify(body) : undefined
        });
        const data = await res.json().catch(() => ({}));
        if (!res.ok) {
          alert(data.error || "Request failed.");
          return null;
        }
        if (data.board) render(data.board);
        return data;
      }

      function readAll(files) {
        return Promise.all(Array.from(files).map((file) => new Promise((resolve) => {
          const reader = new FileReader();
          reader.onload = () => resolve(reader.result);
          reader.readAsDataURL(file);
        })));
      }

      function render(board) {
        state = board;
        $("phase").textContent = board.phase;
        $("counts").textContent = board.remaining + " remaining, " + board.eliminated + " eliminated of " + board.total;
        $("setupTools").hidden = board.phase !== "setup";
        $("playTools").hidden = board.phase === "setup";
        $("confirmSecret").hidden = board.phase !== "select-secret";
        $("start").disabled = !board.can_start;
        $("fill").disabled = board.full;
        $("secret").textContent = board.secret ? "Your person: " + board.secret.name : "";
        const cards = $("cards");
        cards.replaceChildren();
        for (const c of board.characters) {
          const card = document.createElement("div");
          card.className = "card" + (c.eliminated ? " eliminated" : "") + (c.id === board.secret_id ? " secret" : "");
          const img = document.createElement("img");
          img.src = c.image_url;
          const name = document.createElement("span");
          name.textContent = c.name;
          card.append(img, name);
          card.addEventListener("click", () => {
            if (board.phase === "setup") {
              call("DELETE", "/characters/" + c.id);
            } else {
              call("POST", "/cards/" + c.id + "/click");
            }
          });
          cards.append(card);
        }
        const current = board.intake.current;
        $("intake").classList.toggle("open", !!current);
        if (current) {
          $("intakeImage").src = current.image_url;
          $("intakeLeft").textContent = board.intake.pending + " left";
          if (document.activeElement !== $("intakeName")) $("intakeName").value = board.intake.draft;
        }
        $("confirm").classList.toggle("open", board.confirmation === "hard-reset");
      }

      $("picker").addEventListener("change", async (event) => {
        const images = await readAll(event.target.files);
        event.target.value = "";
        if (images.length) call("POST", "/intake", { source: "picker", images });
      });
      document.addEventListener("paste", async (event) => {
        if (!state || state.phase !== "setup") return;
        const files = Array.from(event.clipboardData.items).filter((i) => i.kind === "file").map((i) => i.getAsFile());
        const images = await readAll(files);
        if (images.length) call("POST", "/intake", { source: "paste", images });
      });
      $("intakeForm").addEventListener("submit", (event) => {
        event.preventDefault();
        const name = $("intakeName").value.trim();
        if (name) call("POST", "/intake/name", { name });
      });
      $("intakeName").addEventListener("input", (event) => call("PUT", "/intake/draft", { draft: event.target.value }));
      $("intakeCancel").addEventListener("click", () => call("POST", "/intake/cancel"));
      $("fill").addEventListener("click", () => call("POST", "/fill"));
      $("clear").addEventListener("click", () => call("POST", "/clear"));
      $("start").addEventListener("click", () => call("POST", "/start"));
      $("confirmSecret").addEventListener("click", () => call("POST", "/secret/confirm"));
      $("softReset").addEventListener("click", () => call("POST", "/reset/soft"));
      $("hardReset").addEventListener("click", () => call("POST", "/reset/hard"));
      $("confirmYes").addEventListener("click", () => call("POST", "/confirmation", { accept: true }));
      $("confirmNo").addEventListener("click", () => call("POST", "/confirmation", { accept: false }));
      $("save").addEventListener("click", async () => {
        const data = await call("POST", "/presets", { name: $("presetName").value });
        if (data) {
          alert("Board saved.");
          loadPresets();
        }
      });
      $("load").addEventListener("click", () => {
        const id = $("presetList").value;
        if (id) call("POST", "/presets/" + id + "/load");
      });

      async function loadPresets() {
        const res = await fetch("/api/presets");
        const data = await res.json();
        const list = $("presetList");
        list.replaceChildren();
        for (const p of data.presets || []) {
          const option = document.createElement("option");
          option.value = p.id;
          option.textContent = p.name;
          list.append(option);
        }
      }

      const ws = new WebSocket((location.protocol === "https:" ? "wss://" : "ws://") + location.host + "/ws/boards/" + boardID);
      ws.onmessage = (event) => {
        const msg = JSON.parse(event.data);
        if (msg.type === "snapshot") render(msg.board);
        if (msg.type === "deleted") window.location.href = "/";
      };
      loadPresets();
    </script>
`, pageFoot)
	})
}
