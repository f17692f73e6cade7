package rest_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/nekomata/guildpoints/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func putJSON(r *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	b, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPut, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func deleteReq(r *gin.Engine, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodDelete, path, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func seedPlayers(t *testing.T, db *gorm.DB, n int) []*model.Player {
	t.Helper()
	players := make([]*model.Player, 0, n)
	for i := 0; i < n; i++ {
		p := &model.Player{
			Nickname: fmt.Sprintf("player%d", i+1),
			Email:    fmt.Sprintf("player%d@example.com", i+1),
			Points:   (i + 1) * 10,
		}
		require.NoError(t, db.Create(p).Error)
		players = append(players, p)
	}
	return players
}

// ---- List / Get ----

func TestGuildList(t *testing.T) {
	r, db := newTestRouter(t)

	require.NoError(t, db.Create(&model.Guild{Name: "One"}).Error)
	require.NoError(t, db.Create(&model.Guild{Name: "Two"}).Error)

	w := getReq(r, "/api/guilds")
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode(t, w)
	assert.Len(t, resp["guilds"], 2)
}

func TestGuildGet_TotalPoints(t *testing.T) {
	r, db := newTestRouter(t)

	g := &model.Guild{Name: "Summed"}
	require.NoError(t, db.Create(g).Error)
	players := seedPlayers(t, db, 3) // 10 + 20 + 30 points
	for _, p := range players[:2] {
		require.NoError(t, db.Model(p).Update("guild_id", g.ID).Error)
	}

	w := getReq(r, fmt.Sprintf("/api/guilds/%d", g.ID))
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode(t, w)
	assert.Equal(t, float64(30), resp["total_sp"]) // third player not a member
	assert.Len(t, resp["members"], 2)
}

// total_sp is recomputed per read, so a member's point change shows up
// on the next GET without any guild update.
func TestGuildGet_TotalPointsIsLive(t *testing.T) {
	r, db := newTestRouter(t)

	g := &model.Guild{Name: "Live"}
	require.NoError(t, db.Create(g).Error)
	players := seedPlayers(t, db, 2)
	for _, p := range players {
		require.NoError(t, db.Model(p).Update("guild_id", g.ID).Error)
	}

	w := getReq(r, fmt.Sprintf("/api/guilds/%d", g.ID))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(30), decode(t, w)["total_sp"])

	require.NoError(t, db.Model(players[0]).Update("points", 100).Error)

	w = getReq(r, fmt.Sprintf("/api/guilds/%d", g.ID))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(120), decode(t, w)["total_sp"])
}

func TestGuildGet_NotFound(t *testing.T) {
	r, _ := newTestRouter(t)

	w := getReq(r, "/api/guilds/9999")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

// ---- Create ----

func TestGuildCreate_Success(t *testing.T) {
	r, db := newTestRouter(t)

	players := seedPlayers(t, db, 2)
	w := postJSON(r, "/api/guilds", map[string]interface{}{
		"name":         "Founders",
		"players_id":   []int64{players[0].ID, players[1].ID},
		"country_code": "JP",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var g model.Guild
	require.NoError(t, db.Where("name = ?", "Founders").First(&g).Error)
	require.NotNil(t, g.CountryCode)
	assert.Equal(t, "JP", *g.CountryCode)

	// Both founders are attached.
	var members []model.Player
	require.NoError(t, db.Where("guild_id = ?", g.ID).Find(&members).Error)
	assert.Len(t, members, 2)
}

func TestGuildCreate_CountryCodeOptional(t *testing.T) {
	r, db := newTestRouter(t)

	players := seedPlayers(t, db, 2)
	w := postJSON(r, "/api/guilds", map[string]interface{}{
		"name":       "Stateless",
		"players_id": []int64{players[0].ID, players[1].ID},
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var g model.Guild
	require.NoError(t, db.Where("name = ?", "Stateless").First(&g).Error)
	assert.Nil(t, g.CountryCode)
}

func TestGuildCreate_TooFewPlayers(t *testing.T) {
	r, db := newTestRouter(t)

	players := seedPlayers(t, db, 1)
	w := postJSON(r, "/api/guilds", map[string]interface{}{
		"name":       "Solo",
		"players_id": []int64{players[0].ID},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var guilds []model.Guild
	require.NoError(t, db.Find(&guilds).Error)
	assert.Empty(t, guilds)
}

func TestGuildCreate_DuplicateIDsNotDistinct(t *testing.T) {
	r, db := newTestRouter(t)

	players := seedPlayers(t, db, 1)
	w := postJSON(r, "/api/guilds", map[string]interface{}{
		"name":       "Clones",
		"players_id": []int64{players[0].ID, players[0].ID},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGuildCreate_UnknownPlayer(t *testing.T) {
	r, db := newTestRouter(t)

	players := seedPlayers(t, db, 1)
	w := postJSON(r, "/api/guilds", map[string]interface{}{
		"name":       "Ghosts",
		"players_id": []int64{players[0].ID, 9999},
	})
	assert.Equal(t, http.StatusNotFound, w.Code)

	// No guild, no membership.
	var guilds []model.Guild
	require.NoError(t, db.Find(&guilds).Error)
	assert.Empty(t, guilds)
	var got model.Player
	require.NoError(t, db.First(&got, players[0].ID).Error)
	assert.Nil(t, got.GuildID)
}

func TestGuildCreate_MissingName(t *testing.T) {
	r, db := newTestRouter(t)

	players := seedPlayers(t, db, 2)
	w := postJSON(r, "/api/guilds", map[string]interface{}{
		"players_id": []int64{players[0].ID, players[1].ID},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// ---- Update ----

func TestGuildUpdate_Success(t *testing.T) {
	r, db := newTestRouter(t)

	g := &model.Guild{Name: "Before"}
	require.NoError(t, db.Create(g).Error)

	w := putJSON(r, fmt.Sprintf("/api/guilds/%d", g.ID), map[string]interface{}{
		"name": "After", "country_code": "DE",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var got model.Guild
	require.NoError(t, db.First(&got, g.ID).Error)
	assert.Equal(t, "After", got.Name)
	require.NotNil(t, got.CountryCode)
	assert.Equal(t, "DE", *got.CountryCode)
}

func TestGuildUpdate_NotFound(t *testing.T) {
	r, _ := newTestRouter(t)

	w := putJSON(r, "/api/guilds/9999", map[string]interface{}{"name": "Ghost"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

// ---- Delete ----

func TestGuildDelete_DetachesPlayersOnly(t *testing.T) {
	r, db := newTestRouter(t)

	g := &model.Guild{Name: "Disbanded"}
	require.NoError(t, db.Create(g).Error)
	players := seedPlayers(t, db, 2)
	for _, p := range players {
		require.NoError(t, db.Model(p).Update("guild_id", g.ID).Error)
	}
	require.NoError(t, db.Create(&model.Item{Name: "Relic", OwnerID: players[0].ID, Bonus: 1}).Error)

	w := deleteReq(r, fmt.Sprintf("/api/guilds/%d", g.ID))
	require.Equal(t, http.StatusOK, w.Code)

	var guilds []model.Guild
	require.NoError(t, db.Find(&guilds).Error)
	assert.Empty(t, guilds)

	// Players survive, detached; items survive.
	var survivors []model.Player
	require.NoError(t, db.Find(&survivors).Error)
	require.Len(t, survivors, 2)
	for _, p := range survivors {
		assert.Nil(t, p.GuildID)
	}
	var items []model.Item
	require.NoError(t, db.Find(&items).Error)
	assert.Len(t, items, 1)
}

func TestGuildDelete_NotFound(t *testing.T) {
	r, _ := newTestRouter(t)

	w := deleteReq(r, "/api/guilds/9999")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
