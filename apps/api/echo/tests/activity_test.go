package tests

import (
	"encoding/json"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/gualvesx/V.O.C.E.v2-SenaiEdition/core/activity"
	"github.com/gualvesx/V.O.C.E.v2-SenaiEdition/testutil"
)

type activityFixture struct {
	cookie                      *http.Cookie
	l1, l2, l3, l4, l5          activity.LogEntry // as stored
	n1, n2, n3, n4, n5          activity.LogEntry // as joined with their student
	anaSummary, biaSummary      activity.UserSummary
	caioSummary, unknownSummary activity.UserSummary
}

// setUpActivity creates one class holding Ana (cpf 111) and Bia (pc_id PC-02), Caio (cpf 333) out of it,
// and logs of the three plus one of an unknown aluno_id.
func setUpActivity(t *testing.T) activityFixture {
	db.Reset()

	alice := testutil.CreateProfessor(t, profRepo, "alice", "Alice Prof")
	class := testutil.CreateClass(t, classRepo, alice.ID, "3º B")
	ana := testutil.CreateStudent(t, classRepo, "Ana Souza", "111", "")
	bia := testutil.CreateStudent(t, classRepo, "Beatriz Lima", "", "PC-02")
	testutil.CreateStudent(t, classRepo, "Caio Prado", "333", "")
	testutil.AddMember(t, classRepo, class.ID, ana.ID)
	testutil.AddMember(t, classRepo, class.ID, bia.ID)

	t0 := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	testutil.InsertLogs(t, actRepo,
		testutil.Log("111", "youtube.com", 120, t0.Add(1*time.Hour), "Streaming"),
		testutil.Log("PC-02", "chatgpt.com", 60, t0.Add(2*time.Hour), "IA"),
		testutil.Log("333", "github.com", 300, t0.Add(3*time.Hour), "Programação"),
		testutil.Log("999", "example.com", 30, t0.Add(4*time.Hour), ""),
		testutil.Log("111", "instagram.com", 45, t0.Add(5*time.Hour), "Rede Social"),
	)

	f := activityFixture{cookie: login(t, "alice")}
	stored := func(id int64, l activity.LogEntry) activity.LogEntry {
		l.ID = id
		return l
	}
	named := func(l activity.LogEntry, name string) activity.LogEntry {
		l.StudentName = null.StringFrom(name)
		return l
	}
	f.l1 = stored(1, testutil.Log("111", "youtube.com", 120, t0.Add(1*time.Hour), "Streaming"))
	f.l2 = stored(2, testutil.Log("PC-02", "chatgpt.com", 60, t0.Add(2*time.Hour), "IA"))
	f.l3 = stored(3, testutil.Log("333", "github.com", 300, t0.Add(3*time.Hour), "Programação"))
	f.l4 = stored(4, testutil.Log("999", "example.com", 30, t0.Add(4*time.Hour), ""))
	f.l5 = stored(5, testutil.Log("111", "instagram.com", 45, t0.Add(5*time.Hour), "Rede Social"))
	f.n1, f.n2, f.n3, f.n4, f.n5 = named(f.l1, "Ana Souza"), named(f.l2, "Beatriz Lima"), named(f.l3, "Caio Prado"), f.l4, named(f.l5, "Ana Souza")

	f.anaSummary = activity.UserSummary{
		StudentName: null.StringFrom("Ana Souza"), AlunoID: "111", TotalDuration: 165, LogCount: 2,
		LastActivity: f.l5.Timestamp, HasRedAlert: true, HasAlert: true,
	}
	f.biaSummary = activity.UserSummary{
		StudentName: null.StringFrom("Beatriz Lima"), AlunoID: "PC-02", TotalDuration: 60, LogCount: 1,
		LastActivity: f.l2.Timestamp, HasBlueAlert: true, HasAlert: true,
	}
	f.caioSummary = activity.UserSummary{
		StudentName: null.StringFrom("Caio Prado"), AlunoID: "333", TotalDuration: 300, LogCount: 1, LastActivity: f.l3.Timestamp,
	}
	f.unknownSummary = activity.UserSummary{AlunoID: "999", TotalDuration: 30, LogCount: 1, LastActivity: f.l4.Timestamp}
	return f
}

func filterPath(base string, params map[string]string) string {
	v := make(url.Values)
	for k, val := range params {
		v.Set(k, val)
	}
	return base + "?" + v.Encode()
}

func Test_activityApi_logs(t *testing.T) {
	f := setUpActivity(t)
	path := func(params map[string]string) string { return filterPath("/api/logs/filtered", params) }
	badClassID := httpErr{Error: `classId deve ser um número ou "null"`, Fields: map[string]string{"classId": `classId deve ser um número ou "null"`}}

	runHTTPTests(t, []httpTest{
		{name: "Auth required", path: "/api/logs/filtered", wantCode: http.StatusFound, wantLocation: "/login"},
		{name: "No filter", path: "/api/logs/filtered", cookie: f.cookie, wantCode: http.StatusOK, wantData: marchallList(t, f.n5, f.n4, f.n3, f.n2, f.n1)},
		{name: "classId=null", path: path(map[string]string{"classId": "null"}), cookie: f.cookie, wantCode: http.StatusOK, wantData: marchallList(t, f.n5, f.n4, f.n3, f.n2, f.n1)},
		{name: "classId", path: path(map[string]string{"classId": "1"}), cookie: f.cookie, wantCode: http.StatusOK, wantData: marchallList(t, f.n5, f.n2, f.n1)},
		{name: "classId (unknown)", path: path(map[string]string{"classId": "42"}), cookie: f.cookie, wantCode: http.StatusOK, wantData: marchallList(t)},
		{name: "classId (malformed)", path: path(map[string]string{"classId": "abc"}), cookie: f.cookie, wantCode: http.StatusBadRequest, wantData: marchallObj(t, badClassID)},
		{name: "search name (case insensitive)", path: path(map[string]string{"search": "ana"}), cookie: f.cookie, wantCode: http.StatusOK, wantData: marchallList(t, f.n5, f.n1)},
		{name: "search pc_id", path: path(map[string]string{"search": "pc-0"}), cookie: f.cookie, wantCode: http.StatusOK, wantData: marchallList(t, f.n2)},
		{name: "search cpf", path: path(map[string]string{"search": "33"}), cookie: f.cookie, wantCode: http.StatusOK, wantData: marchallList(t, f.n3)},
		{name: "search wildcard is literal", path: path(map[string]string{"search": "%"}), cookie: f.cookie, wantCode: http.StatusOK, wantData: marchallList(t)},
		{name: "category", path: path(map[string]string{"category": "IA"}), cookie: f.cookie, wantCode: http.StatusOK, wantData: marchallList(t, f.n2)},
		{name: "showAlertsOnly=true", path: path(map[string]string{"showAlertsOnly": "true"}), cookie: f.cookie, wantCode: http.StatusOK, wantData: marchallList(t, f.n5, f.n2, f.n1)},
		{name: "showAlertsOnly=1 is ignored", path: path(map[string]string{"showAlertsOnly": "1"}), cookie: f.cookie, wantCode: http.StatusOK, wantData: marchallList(t, f.n5, f.n4, f.n3, f.n2, f.n1)},
		{
			name: "all combined", path: path(map[string]string{"classId": "1", "search": "souza", "category": "Rede Social", "showAlertsOnly": "true"}), cookie: f.cookie,
			wantCode: http.StatusOK, wantData: marchallList(t, f.n5),
		},
	})
}

func Test_activityApi_summary(t *testing.T) {
	f := setUpActivity(t)
	path := func(params map[string]string) string { return filterPath("/api/users/summary", params) }

	runHTTPTests(t, []httpTest{
		{name: "Auth required", path: "/api/users/summary", wantCode: http.StatusFound, wantLocation: "/login"},
		{
			name: "No filter", path: "/api/users/summary", cookie: f.cookie, wantCode: http.StatusOK,
			wantData: marchallList(t, f.anaSummary, f.unknownSummary, f.caioSummary, f.biaSummary),
		},
		{name: "classId", path: path(map[string]string{"classId": "1"}), cookie: f.cookie, wantCode: http.StatusOK, wantData: marchallList(t, f.anaSummary, f.biaSummary)},
		{name: "category", path: path(map[string]string{"category": "Programação"}), cookie: f.cookie, wantCode: http.StatusOK, wantData: marchallList(t, f.caioSummary)},
	})
}

func Test_activityApi_alerts(t *testing.T) {
	f := setUpActivity(t)
	badTier := httpErr{Error: "Tipo de alerta inválido.", Fields: map[string]string{"type": "Tipo de alerta inválido."}}

	runHTTPTests(t, []httpTest{
		{name: "Auth required", path: "/api/alerts", wantCode: http.StatusFound, wantLocation: "/login"},
		{name: "All alerts", path: "/api/alerts", cookie: f.cookie, wantCode: http.StatusOK, wantData: marchallList(t, f.n5, f.n2, f.n1)},
		{name: "Alerts of a class", path: "/api/alerts?classId=1&search=beatriz", cookie: f.cookie, wantCode: http.StatusOK, wantData: marchallList(t, f.n2)},
		{name: "Red alerts of a student", path: "/api/alerts/111/red", cookie: f.cookie, wantCode: http.StatusOK, wantData: marchallList(t, f.l5, f.l1)},
		{name: "Blue alerts of a student", path: "/api/alerts/PC-02/blue", cookie: f.cookie, wantCode: http.StatusOK, wantData: marchallList(t, f.l2)},
		{name: "No alerts", path: "/api/alerts/333/red", cookie: f.cookie, wantCode: http.StatusOK, wantData: marchallList(t)},
		{name: "Invalid type", path: "/api/alerts/111/green", cookie: f.cookie, wantCode: http.StatusBadRequest, wantData: marchallObj(t, badTier)},
	})
}

func Test_activityApi_alertsLimit(t *testing.T) {
	db.Reset()
	testutil.CreateProfessor(t, profRepo, "alice", "Alice Prof")
	cookie := login(t, "alice")

	t0 := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	logs := make([]activity.LogEntry, 0, activity.AlertsLimit+20)
	for i := 0; i < activity.AlertsLimit+20; i++ {
		logs = append(logs, testutil.Log("111", "jogos.com", 10, t0.Add(time.Duration(i)*time.Minute), "Jogos"))
	}
	testutil.InsertLogs(t, actRepo, logs...)

	rec := serve(newAuthRequest(http.MethodGet, "/api/alerts", cookie))
	if rec.Code != http.StatusOK {
		t.Fatalf("code = %d; want %d", rec.Code, http.StatusOK)
	}
	var got []activity.LogEntry
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if len(got) != activity.AlertsLimit {
		t.Errorf("len(alerts) = %d; want %d", len(got), activity.AlertsLimit)
	}
	if got[0].ID != int64(activity.AlertsLimit+20) {
		t.Errorf("alerts[0].ID = %d; want the newest log", got[0].ID)
	}
}

func Test_activityApi_topSites(t *testing.T) {
	f := setUpActivity(t)

	runHTTPTests(t, []httpTest{
		{
			name: "No filter", path: "/api/logs/top-sites", cookie: f.cookie, wantCode: http.StatusOK,
			wantData: marchallList(t,
				activity.SiteUsage{URL: "github.com", Duration: 300},
				activity.SiteUsage{URL: "youtube.com", Duration: 120},
				activity.SiteUsage{URL: "chatgpt.com", Duration: 60},
				activity.SiteUsage{URL: "instagram.com", Duration: 45},
				activity.SiteUsage{URL: "example.com", Duration: 30},
			),
		},
		{
			name: "classId", path: "/api/logs/top-sites?classId=1", cookie: f.cookie, wantCode: http.StatusOK,
			wantData: marchallList(t,
				activity.SiteUsage{URL: "youtube.com", Duration: 120},
				activity.SiteUsage{URL: "chatgpt.com", Duration: 60},
				activity.SiteUsage{URL: "instagram.com", Duration: 45},
			),
		},
	})
}
