//go:build integration

package integration

import (
	"net/http"
	"testing"
)

func TestMessageThread(t *testing.T) {
	buyerToken, buyerID := registerAndLogin(t, "chatty", "chatty@example.com", "longenough")
	admin := adminToken(t)

	resp := do(t, http.MethodPost, "/api/messages/", buyerToken, map[string]string{
		"text": "Is the pork belly fresh today?",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("buyer send: expected 201, got %d", resp.StatusCode)
	}
	sent := decodeJSON[messageResponse](t, resp)
	if sent.Sender != "user" {
		t.Errorf("sender: got %q, want user", sent.Sender)
	}
	if sent.UserID != buyerID {
		t.Errorf("thread user: got %q, want %q", sent.UserID, buyerID)
	}

	resp = do(t, http.MethodPost, "/api/messages/", admin, map[string]string{
		"text":    "Delivered this morning, yes.",
		"user_id": buyerID,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("admin reply: expected 201, got %d", resp.StatusCode)
	}
	reply := decodeJSON[messageResponse](t, resp)
	if reply.Sender != "admin" {
		t.Errorf("reply sender: got %q, want admin", reply.Sender)
	}
	if reply.UserID != buyerID {
		t.Errorf("reply thread: got %q, want %q", reply.UserID, buyerID)
	}

	resp = do(t, http.MethodGet, "/api/messages/user/"+buyerID+"/", buyerToken, nil)
	thread := decodeJSON[[]messageResponse](t, resp)
	if len(thread) != 2 {
		t.Fatalf("thread length: got %d, want 2", len(thread))
	}
}

func TestMessageThread_AccessControl(t *testing.T) {
	buyerToken, buyerID := registerAndLogin(t, "private", "private@example.com", "longenough")
	strangerToken, _ := registerAndLogin(t, "eaves", "eaves@example.com", "longenough")

	resp := do(t, http.MethodPost, "/api/messages/", buyerToken, map[string]string{
		"text": "Do you deliver on Sundays?",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("send: expected 201, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp = do(t, http.MethodGet, "/api/messages/user/"+buyerID+"/", strangerToken, nil)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("stranger read: expected 403, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp = do(t, http.MethodPost, "/api/messages/", strangerToken, map[string]string{
		"text":    "Hi from someone else",
		"user_id": buyerID,
	})
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("write into other thread: expected 403, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestAdminInbox(t *testing.T) {
	buyerToken, _ := registerAndLogin(t, "inboxer", "inboxer@example.com", "longenough")
	admin := adminToken(t)

	resp := do(t, http.MethodPost, "/api/messages/", buyerToken, map[string]string{
		"text": "Any string beans left?",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("send: expected 201, got %d", resp.StatusCode)
	}
	sent := decodeJSON[messageResponse](t, resp)

	resp = do(t, http.MethodGet, "/api/messages/admin/", buyerToken, nil)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("buyer inbox access: expected 403, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp = do(t, http.MethodGet, "/api/messages/admin/", admin, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("admin inbox: expected 200, got %d", resp.StatusCode)
	}
	unread := decodeJSON[[]messageResponse](t, resp)
	found := false
	for _, m := range unread {
		if m.ID == sent.ID {
			found = true
			if m.Read {
				t.Error("message should be unread")
			}
		}
	}
	if !found {
		t.Fatalf("message %d not in unread inbox", sent.ID)
	}

	resp = do(t, http.MethodPut, "/api/messages/admin/", admin, map[string]int64{"message_id": sent.ID})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("mark read: expected 200, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp = do(t, http.MethodGet, "/api/messages/admin/", admin, nil)
	unread = decodeJSON[[]messageResponse](t, resp)
	for _, m := range unread {
		if m.ID == sent.ID {
			t.Errorf("message %d still unread after marking read", sent.ID)
		}
	}
}
