package rest

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/rocketscienceinc/tictactoe-hotseat/internal/config"
	"github.com/rocketscienceinc/tictactoe-hotseat/internal/entity"
	"github.com/rocketscienceinc/tictactoe-hotseat/internal/repository"
	"github.com/rocketscienceinc/tictactoe-hotseat/internal/usecase"
	"github.com/rocketscienceinc/tictactoe-hotseat/testing/suite"
)

const cookieName = "user_session"

// testServer - a browser-like client talking to the full router.
type testServer struct {
	t      *testing.T
	server *httptest.Server
	client *http.Client
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	_, st := suite.New(t)

	manager := usecase.NewGameManager(
		st.Logger,
		repository.NewGameRepository(st.Storage, time.Hour),
		usecase.NewHub(),
		noop.NewTracerProvider().Tracer("test"),
	)

	router := NewRouter(RouterConfig{
		Logger:     st.Logger,
		Games:      manager,
		Session:    config.Session{CookieName: cookieName, TTL: time.Hour},
		SocketPort: "9091",
	})

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)

	return &testServer{
		t:      t,
		server: server,
		client: &http.Client{Jar: jar},
	}
}

func (that *testServer) do(method, path, body string) *http.Response {
	that.t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}

	request, err := http.NewRequest(method, that.server.URL+path, reader)
	require.NoError(that.t, err)

	if body != "" {
		request.Header.Set("Content-Type", "application/json")
	}

	response, err := that.client.Do(request)
	require.NoError(that.t, err)
	that.t.Cleanup(func() { _ = response.Body.Close() })

	return response
}

func (that *testServer) game(method, path, body string) gameResponse {
	that.t.Helper()

	response := that.do(method, path, body)
	require.Equal(that.t, http.StatusOK, response.StatusCode)

	var decoded gameResponse
	require.NoError(that.t, json.NewDecoder(response.Body).Decode(&decoded))

	return decoded
}

func (that *testServer) move(cell int) gameResponse {
	that.t.Helper()

	return that.game(http.MethodPost, "/api/game/moves", `{"cell":`+strconv.Itoa(cell)+`}`)
}

func (that *testServer) page() *goquery.Document {
	that.t.Helper()

	response := that.do(http.MethodGet, "/", "")
	require.Equal(that.t, http.StatusOK, response.StatusCode)
	assert.Contains(that.t, response.Header.Get("Content-Type"), "text/html")

	doc, err := goquery.NewDocumentFromReader(response.Body)
	require.NoError(that.t, err)

	return doc
}

func TestPing(t *testing.T) {
	ts := newTestServer(t)

	response := ts.do(http.MethodGet, "/ping", "")
	body, err := io.ReadAll(response.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, response.StatusCode)
	assert.Equal(t, "pong", string(body))
}

func TestIndex_NewSession(t *testing.T) {
	ts := newTestServer(t)

	// When: the page is opened without a cookie
	doc := ts.page()

	// Then: an empty board with the initial status is rendered
	assert.Equal(t, 9, doc.Find("#board .cell").Length())
	assert.Equal(t, 0, doc.Find("#board .cell[disabled]").Length())
	assert.Equal(t, "Player X's Turn", doc.Find("#status").Text())
	assert.Equal(t, "Blue", doc.Find("#turn-color").Text())
	assert.Equal(t, "0", doc.Find("#score-x").Text())
	assert.Equal(t, "0", doc.Find("#score-o").Text())
	assert.Equal(t, "0", doc.Find("#score-draws").Text())
	assert.Equal(t, "New Game", doc.Find("#new-game").Text())

	_, hidden := doc.Find("#overlay").Attr("hidden")
	assert.True(t, hidden)

	session, ok := doc.Find("#app").Attr("data-session")
	require.True(t, ok)
	assert.NotEmpty(t, session)

	socketPort, _ := doc.Find("#app").Attr("data-socket-port")
	assert.Equal(t, "9091", socketPort)

	// and the session cookie is set
	assert.Equal(t, session, ts.cookie())
}

func TestIndex_KeepsSession(t *testing.T) {
	ts := newTestServer(t)

	first, _ := ts.page().Find("#app").Attr("data-session")
	ts.move(4)

	doc := ts.page()
	second, _ := doc.Find("#app").Attr("data-session")

	assert.Equal(t, first, second)
	assert.Equal(t, "X", doc.Find(`.cell[data-cell="4"]`).Text())
	assert.True(t, doc.Find(`.cell[data-cell="4"]`).HasClass("player-x"))
	_, disabled := doc.Find(`.cell[data-cell="4"]`).Attr("disabled")
	assert.True(t, disabled)
	assert.Equal(t, "Orange", doc.Find("#turn-color").Text())
}

func TestIndex_WonRound(t *testing.T) {
	ts := newTestServer(t)
	ts.page()

	// Given: X wins with the top row
	for _, cell := range []int{0, 3, 1, 4, 2} {
		ts.move(cell)
	}

	// When: the page is rendered
	doc := ts.page()

	// Then: the line is highlighted, every cell is disabled and the overlay is shown
	winning := make([]string, 0)
	doc.Find(".cell.winning").Each(func(_ int, cell *goquery.Selection) {
		index, _ := cell.Attr("data-cell")
		winning = append(winning, index)
	})

	assert.Equal(t, []string{"0", "1", "2"}, winning)
	assert.Equal(t, 9, doc.Find("#board .cell[disabled]").Length())
	assert.Equal(t, "Player X Wins!", doc.Find("#status").Text())
	assert.Equal(t, "1", doc.Find("#score-x").Text())

	_, hidden := doc.Find("#overlay").Attr("hidden")
	assert.False(t, hidden)
	assert.Equal(t, "Player X Wins!", doc.Find("#overlay-title").Text())
	assert.True(t, doc.Find("#overlay-title").HasClass("player-x"))
	assert.Equal(t, "Congratulations!", doc.Find("#overlay-text").Text())

	_, turnHidden := doc.Find("#turn").Attr("hidden")
	assert.True(t, turnHidden)
}

func TestIndex_Draw(t *testing.T) {
	ts := newTestServer(t)
	ts.page()

	for _, cell := range []int{0, 1, 2, 4, 3, 5, 7, 6, 8} {
		ts.move(cell)
	}

	doc := ts.page()

	assert.Equal(t, "It's a Draw!", doc.Find("#status").Text())
	assert.Equal(t, "Good game!", doc.Find("#overlay-text").Text())
	assert.Equal(t, "1", doc.Find("#score-draws").Text())
	assert.Zero(t, doc.Find(".cell.winning").Length())
}

func TestAPI_Game(t *testing.T) {
	ts := newTestServer(t)

	// When: the game is requested
	response := ts.game(http.MethodGet, "/api/game", "")

	// Then: a new session with an empty board comes back
	assert.NotEmpty(t, response.Session.ID)
	assert.Equal(t, entity.Board{}, response.Game.Board)
	assert.Equal(t, entity.StatusPlaying, response.Game.Status)
	assert.Nil(t, response.Accepted)
	assert.Equal(t, response.Session.ID, ts.cookie())
}

func TestAPI_Move(t *testing.T) {
	t.Run("Accepted and rejected moves", func(t *testing.T) {
		ts := newTestServer(t)
		ts.game(http.MethodGet, "/api/game", "")

		first := ts.move(4)
		require.NotNil(t, first.Accepted)
		assert.True(t, *first.Accepted)
		assert.Equal(t, entity.PlayerX, first.Game.Board[4])
		assert.Equal(t, entity.PlayerO, first.Game.Turn)

		second := ts.move(4)
		require.NotNil(t, second.Accepted)
		assert.False(t, *second.Accepted)
		assert.Equal(t, first.Game, second.Game)
	})

	t.Run("Winning move reports the line", func(t *testing.T) {
		ts := newTestServer(t)
		ts.game(http.MethodGet, "/api/game", "")

		var last gameResponse
		for _, cell := range []int{0, 2, 1, 4, 8, 6} {
			last = ts.move(cell)
		}

		assert.Equal(t, entity.StatusWon, last.Game.Status)
		assert.Equal(t, entity.PlayerO, last.Game.Winner)
		require.NotNil(t, last.Game.WinningLine)
		assert.Equal(t, [3]int{2, 4, 6}, last.Game.WinningLine.Cells)
		assert.Equal(t, entity.ScoreBoard{O: 1}, last.Game.Scores)
	})

	t.Run("Bad requests", func(t *testing.T) {
		ts := newTestServer(t)
		ts.game(http.MethodGet, "/api/game", "")

		for _, body := range []string{`{"cell":9}`, `{"cell":-1}`, `{}`, `not json`, `{"cell":"4"}`} {
			response := ts.do(http.MethodPost, "/api/game/moves", body)
			assert.Equal(t, http.StatusBadRequest, response.StatusCode, body)

			var decoded errorResponse
			require.NoError(t, json.NewDecoder(response.Body).Decode(&decoded))
			assert.NotEmpty(t, decoded.Error)
		}
	})

	t.Run("Without a session", func(t *testing.T) {
		ts := newTestServer(t)

		response := ts.do(http.MethodPost, "/api/game/moves", `{"cell":0}`)

		assert.Equal(t, http.StatusNotFound, response.StatusCode)
	})
}

func TestAPI_Reset(t *testing.T) {
	ts := newTestServer(t)
	ts.game(http.MethodGet, "/api/game", "")

	for _, cell := range []int{0, 3, 1, 4, 2} {
		ts.move(cell)
	}

	// When: the round is reset
	response := ts.game(http.MethodPost, "/api/game/reset", "")

	// Then: the board is clean and the score is kept
	assert.Equal(t, entity.Board{}, response.Game.Board)
	assert.Equal(t, entity.PlayerX, response.Game.Turn)
	assert.Equal(t, entity.StatusPlaying, response.Game.Status)
	assert.Nil(t, response.Game.WinningLine)
	assert.Equal(t, entity.ScoreBoard{X: 1}, response.Game.Scores)
}

func TestAPI_End(t *testing.T) {
	ts := newTestServer(t)
	started := ts.game(http.MethodGet, "/api/game", "")
	ts.move(0)

	// When: the session is ended
	response := ts.do(http.MethodDelete, "/api/game", "")

	// Then: the cookie is cleared and the next request starts over
	assert.Equal(t, http.StatusNoContent, response.StatusCode)
	assert.Empty(t, ts.cookie())

	next := ts.game(http.MethodGet, "/api/game", "")
	assert.NotEqual(t, started.Session.ID, next.Session.ID)
	assert.Equal(t, entity.Board{}, next.Game.Board)

	// ending twice is fine
	assert.Equal(t, http.StatusNoContent, ts.do(http.MethodDelete, "/api/game", "").StatusCode)
	assert.Equal(t, http.StatusNoContent, ts.do(http.MethodDelete, "/api/game", "").StatusCode)
}

func TestStatic(t *testing.T) {
	ts := newTestServer(t)

	response := ts.do(http.MethodGet, "/static/app.js", "")
	assert.Equal(t, http.StatusOK, response.StatusCode)

	response = ts.do(http.MethodGet, "/static/style.css", "")
	assert.Equal(t, http.StatusOK, response.StatusCode)
}

func (that *testServer) cookie() string {
	request, err := http.NewRequest(http.MethodGet, that.server.URL, nil)
	require.NoError(that.t, err)

	for _, cookie := range that.client.Jar.Cookies(request.URL) {
		if cookie.Name == cookieName {
			return cookie.Value
		}
	}

	return ""
}
