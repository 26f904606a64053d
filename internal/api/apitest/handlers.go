package apitest

import (
	"net/http"
	"strings"

	"github.com/gravitrone/shelf/cli/internal/api"
)

// --- Auth ---

func (b *Backend) register(w http.ResponseWriter, r *http.Request) {
	body := bodyOf(r)
	name, email, password := str(body, "name"), str(body, "email"), str(body, "password")
	if name == "" || email == "" || password == "" {
		writeDetail(w, http.StatusUnprocessableEntity, "name, email and password are required")
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.accountByEmail(email) != nil {
		writeDetail(w, http.StatusBadRequest, "Email already registered")
		return
	}
	u := api.User{ID: b.id(), Name: name, Email: email}
	b.accounts = append(b.accounts, &account{user: u, password: password})
	writeJSON(w, http.StatusCreated, u)
}

func (b *Backend) login(w http.ResponseWriter, r *http.Request) {
	body := bodyOf(r)
	b.mu.Lock()
	defer b.mu.Unlock()
	acc := b.accountByEmail(str(body, "email"))
	if acc == nil || acc.password != str(body, "password") {
		writeDetail(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	writeJSON(w, http.StatusOK, acc.user)
}

func (b *Backend) forgotPassword(w http.ResponseWriter, r *http.Request) {
	body := bodyOf(r)
	b.mu.Lock()
	defer b.mu.Unlock()
	acc := b.accountByEmail(str(body, "email"))
	if acc == nil {
		writeDetail(w, http.StatusNotFound, "Email not found")
		return
	}
	acc.resetToken = "reset-" + acc.user.ID.String()
	writeJSON(w, http.StatusOK, api.Ack{Message: "Reset link sent"})
}

func (b *Backend) resetPassword(w http.ResponseWriter, r *http.Request) {
	body := bodyOf(r)
	token, password := str(body, "token"), str(body, "new_password")

	b.mu.Lock()
	defer b.mu.Unlock()
	for _, acc := range b.accounts {
		if token != "" && acc.resetToken == token {
			acc.password = password
			acc.resetToken = ""
			writeJSON(w, http.StatusOK, api.Ack{Message: "Password updated"})
			return
		}
	}
	writeDetail(w, http.StatusBadRequest, "Invalid or expired token")
}

// --- Collections ---

func (b *Backend) listCollections(w http.ResponseWriter, r *http.Request) {
	owner, ok := pathID(r, "id")
	if !ok {
		writeDetail(w, http.StatusUnprocessableEntity, "invalid id")
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	out := []api.Collection{}
	for _, c := range b.collections {
		if c.OwnerID == owner {
			out = append(out, b.withItemCount(c))
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (b *Backend) createCollection(w http.ResponseWriter, r *http.Request) {
	body := bodyOf(r)
	if strings.TrimSpace(str(body, "name")) == "" {
		writeDetail(w, http.StatusUnprocessableEntity, "name is required")
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	c := api.Collection{
		ID:          b.id(),
		Name:        str(body, "name"),
		Description: str(body, "description"),
		ImageURL:    str(body, "image_url"),
		IsPublic:    body["is_public"] == true,
		OwnerID:     api.ID(num(body, "owner_id")),
	}
	b.collections = append(b.collections, c)
	writeJSON(w, http.StatusCreated, c)
}

func (b *Backend) updateCollection(w http.ResponseWriter, r *http.Request) {
	id, _ := pathID(r, "id")
	body := bodyOf(r)
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, c := range b.collections {
		if c.ID != id {
			continue
		}
		c.Name = str(body, "name")
		c.Description = str(body, "description")
		c.ImageURL = str(body, "image_url")
		c.IsPublic = body["is_public"] == true
		b.collections[i] = c
		writeJSON(w, http.StatusOK, b.withItemCount(c))
		return
	}
	writeDetail(w, http.StatusNotFound, "Collection not found")
}

func (b *Backend) deleteCollection(w http.ResponseWriter, r *http.Request) {
	id, _ := pathID(r, "id")
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, c := range b.collections {
		if c.ID != id {
			continue
		}
		b.collections = append(b.collections[:i], b.collections[i+1:]...)
		kept := b.items[:0]
		for _, it := range b.items {
			if it.CollectionID != id {
				kept = append(kept, it)
			}
		}
		b.items = kept
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeDetail(w, http.StatusNotFound, "Collection not found")
}

// --- Items ---

func (b *Backend) listItems(w http.ResponseWriter, r *http.Request) {
	id, _ := pathID(r, "id")
	b.mu.Lock()
	defer b.mu.Unlock()
	out := []api.Item{}
	for _, it := range b.items {
		if it.CollectionID == id {
			out = append(out, it)
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (b *Backend) createItem(w http.ResponseWriter, r *http.Request) {
	body := bodyOf(r)
	if strings.TrimSpace(str(body, "name")) == "" {
		writeDetail(w, http.StatusUnprocessableEntity, "name is required")
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	it := api.Item{
		ID:             b.id(),
		Name:           str(body, "name"),
		Description:    str(body, "description"),
		Quantity:       int(num(body, "quantity")),
		EstimatedValue: num(body, "estimated_value"),
		ImageURL:       str(body, "image_url"),
		CollectionID:   api.ID(num(body, "collection_id")),
	}
	b.items = append(b.items, it)
	writeJSON(w, http.StatusCreated, it)
}

func (b *Backend) updateItem(w http.ResponseWriter, r *http.Request) {
	id, _ := pathID(r, "id")
	body := bodyOf(r)
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, it := range b.items {
		if it.ID != id {
			continue
		}
		it.Name = str(body, "name")
		it.Description = str(body, "description")
		it.Quantity = int(num(body, "quantity"))
		it.EstimatedValue = num(body, "estimated_value")
		it.ImageURL = str(body, "image_url")
		b.items[i] = it
		writeJSON(w, http.StatusOK, it)
		return
	}
	writeDetail(w, http.StatusNotFound, "Item not found")
}

func (b *Backend) deleteItem(w http.ResponseWriter, r *http.Request) {
	id, _ := pathID(r, "id")
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, it := range b.items {
		if it.ID == id {
			b.items = append(b.items[:i], b.items[i+1:]...)
			w.WriteHeader(http.StatusNoContent)
			return
		}
	}
	writeDetail(w, http.StatusNotFound, "Item not found")
}

// --- Users ---

func (b *Backend) listUsers(w http.ResponseWriter, r *http.Request) {
	search := strings.ToLower(r.URL.Query().Get("search"))
	b.mu.Lock()
	defer b.mu.Unlock()
	out := []api.User{}
	for _, acc := range b.accounts {
		if search == "" || strings.Contains(strings.ToLower(acc.user.Name), search) {
			out = append(out, acc.user)
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (b *Backend) getUser(w http.ResponseWriter, r *http.Request) {
	id, _ := pathID(r, "id")
	b.mu.Lock()
	defer b.mu.Unlock()
	acc := b.accountByID(id)
	if acc == nil {
		writeDetail(w, http.StatusNotFound, "User not found")
		return
	}
	writeJSON(w, http.StatusOK, acc.user)
}

func (b *Backend) profile(w http.ResponseWriter, r *http.Request) {
	id, _ := pathID(r, "id")
	b.mu.Lock()
	defer b.mu.Unlock()
	acc := b.accountByID(id)
	if acc == nil {
		writeDetail(w, http.StatusNotFound, "User not found")
		return
	}
	cols := []api.Collection{}
	for _, c := range b.collections {
		if c.OwnerID == id {
			cols = append(cols, b.withItemCount(c))
		}
	}
	writeJSON(w, http.StatusOK, api.ProfileBundle{Profile: acc.user, Collections: cols})
}

func (b *Backend) updateUser(w http.ResponseWriter, r *http.Request) {
	id, _ := pathID(r, "id")
	body := bodyOf(r)
	b.mu.Lock()
	defer b.mu.Unlock()
	acc := b.accountByID(id)
	if acc == nil {
		writeDetail(w, http.StatusNotFound, "User not found")
		return
	}
	email := str(body, "email")
	if other := b.accountByEmail(email); other != nil && other != acc {
		writeDetail(w, http.StatusBadRequest, "Email already registered")
		return
	}
	acc.user.Name = str(body, "name")
	acc.user.Email = email
	acc.user.Bio = str(body, "bio")
	writeJSON(w, http.StatusOK, acc.user)
}
