package view

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
)

type Balloon struct {
	Color  string `json:"color"`
	Helium bool   `json:"helium"`
}

// Balloons are fun.
type Balloons struct {
	items []Balloon
}

// Index gets all the balloons.
//
// Detailed instructions for what to do with balloons.
func (b *Balloons) Index(w http.ResponseWriter, _ *http.Request) error {
	return JSON(w, b.items)
}

// Get fetches one balloon.
func (b *Balloons) Get(w http.ResponseWriter, _ *http.Request, id int) error {
	if id < 0 || id >= len(b.items) {
		return Abort(http.StatusNotFound, "no such balloon")
	}
	return JSON(w, b.items[id])
}

// Post inflates a balloon.
func (b *Balloons) Post(w http.ResponseWriter, _ *http.Request, balloon, label string, color string, helium bool) error {
	b.items = append(b.items, Balloon{Color: balloon + "/" + label + "/" + color, Helium: helium})
	w.WriteHeader(http.StatusCreated)
	return nil
}

// Delete pops a balloon.
func (b *Balloons) Delete(_ http.ResponseWriter, _ *http.Request, _ int) error {
	return errors.New("balloon popped")
}

func (b *Balloons) Defaults() map[string][]string {
	return map[string][]string{"Post": {"red", "true"}}
}

func (b *Balloons) Model() any {
	return Balloon{}
}

// Count is not a handler.
func (b *Balloons) Count() int {
	return len(b.items)
}

type Kites struct{}

// Index lists kites.
func (Kites) Index(w http.ResponseWriter, _ *http.Request) error {
	return JSON(w, []string{"delta"})
}

// Get fetches a kite by reference.
func (k *Kites) Get(w http.ResponseWriter, _ *http.Request, ref uuid.UUID) error {
	return JSON(w, ref.String())
}

// ShowColor renders the kite color.
func (k *Kites) ShowColor(w http.ResponseWriter, _ *http.Request, color string, ratio float64) error {
	w.WriteHeader(http.StatusNoContent)
	return nil
}

// Tethers hold balloons down.
type Tethers struct{}

func (t *Tethers) RouteBase() string {
	return "/<int:id>/balloon"
}

// Put ties a balloon.
func (t *Tethers) Put(w http.ResponseWriter, _ *http.Request, id int, color string) error {
	return JSON(w, map[string]any{"id": id, "color": color})
}

type Empty struct{}

func (Empty) Name() string {
	return "empty"
}

type Unsupported struct{}

func (Unsupported) Index(_ http.ResponseWriter, _ *http.Request, _ []string) error {
	return nil
}
