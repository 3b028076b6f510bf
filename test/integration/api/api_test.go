// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

//go:build integration

package api_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/oklog/ulid/v2"
	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention
)

type response struct {
	status int
	body   []byte
}

func (r response) object() map[string]any {
	var v map[string]any
	Expect(json.Unmarshal(r.body, &v)).To(Succeed(), string(r.body))
	return v
}

func (r response) list() []map[string]any {
	var v []map[string]any
	Expect(json.Unmarshal(r.body, &v)).To(Succeed(), string(r.body))
	return v
}

func call(method, path string, body any, token string) response {
	var payload bytes.Buffer
	if body != nil {
		Expect(json.NewEncoder(&payload).Encode(body)).To(Succeed())
	}
	req, err := http.NewRequestWithContext(env.ctx, method, env.server.URL+path, &payload)
	Expect(err).NotTo(HaveOccurred())
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := env.server.Client().Do(req)
	Expect(err).NotTo(HaveOccurred())
	defer resp.Body.Close()

	var out bytes.Buffer
	_, err = out.ReadFrom(resp.Body)
	Expect(err).NotTo(HaveOccurred())
	return response{status: resp.StatusCode, body: out.Bytes()}
}

func signup(email, password string) string {
	creds := map[string]string{"email": email, "password": password}
	Expect(call(http.MethodPost, "/registration", creds, "").status).To(Equal(http.StatusCreated))
	resp := call(http.MethodPost, "/login", creds, "")
	Expect(resp.status).To(Equal(http.StatusOK))
	return resp.object()["token"].(string)
}

var _ = Describe("Accounts", func() {
	It("rejects a second registration of the same email", func() {
		creds := map[string]string{"email": "a@x.com", "password": "p1"}
		Expect(call(http.MethodPost, "/registration", creds, "").status).To(Equal(http.StatusCreated))

		resp := call(http.MethodPost, "/registration", map[string]string{"email": "A@x.com", "password": "p2"}, "")
		Expect(resp.status).To(Equal(http.StatusUnprocessableEntity))
		Expect(resp.object()["error"]).To(Equal("entry already exists"))
	})

	It("does not distinguish unknown emails from wrong passwords", func() {
		signup("a@x.com", "p1")

		wrong := call(http.MethodPost, "/login", map[string]string{"email": "a@x.com", "password": "bad"}, "")
		unknown := call(http.MethodPost, "/login", map[string]string{"email": "z@x.com", "password": "p1"}, "")
		Expect(wrong.status).To(Equal(http.StatusUnauthorized))
		Expect(unknown.status).To(Equal(http.StatusUnauthorized))
		Expect(wrong.body).To(Equal(unknown.body))
	})
})

var _ = Describe("Questions", func() {
	var alice, bob string

	BeforeEach(func() {
		alice = signup("a@x.com", "p1")
		bob = signup("b@x.com", "p2")
	})

	It("lets only the owner change or delete a question", func() {
		created := call(http.MethodPost, "/questions", map[string]any{"title": "T", "content": "C", "tags": []string{"go"}}, alice)
		Expect(created.status).To(Equal(http.StatusCreated))
		id := created.object()["id"].(string)

		Expect(call(http.MethodPut, "/questions/"+id, map[string]any{"title": "X", "content": "Y"}, bob).status).
			To(Equal(http.StatusUnauthorized))
		Expect(call(http.MethodDelete, "/questions/"+id, nil, bob).status).To(Equal(http.StatusUnauthorized))

		updated := call(http.MethodPut, "/questions/"+id, map[string]any{"title": "T2", "content": "C2"}, alice)
		Expect(updated.status).To(Equal(http.StatusOK))
		Expect(updated.object()).To(HaveKeyWithValue("title", "T2"))

		Expect(call(http.MethodDelete, "/questions/"+id, nil, alice).status).To(Equal(http.StatusNoContent))
		Expect(call(http.MethodGet, "/questions/"+id, nil, "").status).To(Equal(http.StatusNotFound))
	})

	It("pages newest first", func() {
		for i := range 5 {
			resp := call(http.MethodPost, "/questions", map[string]any{"title": fmt.Sprintf("q%d", i), "content": "C"}, alice)
			Expect(resp.status).To(Equal(http.StatusCreated))
		}

		all := call(http.MethodGet, "/questions", nil, "").list()
		Expect(all).To(HaveLen(5))
		Expect(all[0]["title"]).To(Equal("q4"))

		page := call(http.MethodGet, "/questions?limit=2&offset=1", nil, "").list()
		Expect(page).To(HaveLen(2))
		Expect(page[0]["title"]).To(Equal("q3"))
		Expect(page[1]["title"]).To(Equal("q2"))

		Expect(call(http.MethodGet, "/questions?offset=1", nil, "").status).To(Equal(http.StatusBadRequest))
	})

	It("removes answers with their question", func() {
		question := call(http.MethodPost, "/questions", map[string]any{"title": "T", "content": "C"}, alice).object()
		questionID := question["id"].(string)

		answer := call(http.MethodPost, "/answers", map[string]any{"content": "A", "question_id": questionID}, bob)
		Expect(answer.status).To(Equal(http.StatusCreated))
		answerID := answer.object()["id"].(string)

		Expect(call(http.MethodPut, "/answers/"+answerID, map[string]any{"content": "mine"}, alice).status).
			To(Equal(http.StatusUnauthorized))
		Expect(call(http.MethodPut, "/answers/"+answerID, map[string]any{"content": "A2"}, bob).status).
			To(Equal(http.StatusOK))

		Expect(call(http.MethodDelete, "/questions/"+questionID, nil, alice).status).To(Equal(http.StatusNoContent))

		var remaining int
		Expect(env.pool.QueryRow(env.ctx, "SELECT count(*) FROM answers").Scan(&remaining)).To(Succeed())
		Expect(remaining).To(BeZero())
		Expect(call(http.MethodPut, "/answers/"+answerID, map[string]any{"content": "A3"}, bob).status).
			To(Equal(http.StatusUnauthorized))
	})

	It("reports answers to unknown questions as not found", func() {
		resp := call(http.MethodPost, "/answers", map[string]any{"content": "A", "question_id": ulid.Make().String()}, bob)
		Expect(resp.status).To(Equal(http.StatusNotFound))
	})
})
