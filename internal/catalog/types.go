package catalog

// Rose mirrors the API's rose resource. The server is authoritative; the
// client only ever holds transient copies of these records.
type Rose struct {
	ID             int64   `json:"id"`
	Title          string  `json:"title"`
	TitleEng       string  `json:"title_eng"`
	Photo          string  `json:"photo"`
	Group          string  `json:"group"`
	Breeder        string  `json:"breeder"`
	ConstWidth     float64 `json:"const_width"`
	ConstHeight    float64 `json:"const_height"`
	LandingDate    string  `json:"landing_date"`
	Description    string  `json:"description"`
	Observation    string  `json:"observation"`
	Susceptibility string  `json:"susceptibility"`

	Sizes      []Size      `json:"sizes"`
	Feedings   []Feeding   `json:"feedings"`
	Foliages   []Foliage   `json:"foliages"`
	Videos     []Video     `json:"videos"`
	Photos     []RosePhoto `json:"rosephotos"`
	Pesticides []Treatment `json:"pesticides"`
	Fungicides []Treatment `json:"fungicides"`
}

// DisplayTitle prefers the native title and falls back to the English one.
func (r Rose) DisplayTitle() string {
	if r.Title != "" {
		return r.Title
	}
	return r.TitleEng
}

// Size is one measurement record for a rose.
type Size struct {
	ID        int64   `json:"id"`
	Width     float64 `json:"width"`
	Height    float64 `json:"height"`
	DateAdded string  `json:"date_added"`
}

// Feeding records one fertilizing event.
type Feeding struct {
	ID         int64  `json:"id"`
	Fertilizer string `json:"fertilizer"`
	DateFed    string `json:"date_fed"`
}

// Foliage records a pruning or foliage-condition observation.
type Foliage struct {
	ID        int64  `json:"id"`
	Condition string `json:"condition"`
	DateNoted string `json:"date_noted"`
}

// Video is a linked video clip.
type Video struct {
	ID      int64  `json:"id"`
	URL     string `json:"video"`
	Caption string `json:"descr"`
}

// RosePhoto is one gallery photo attached to a rose.
type RosePhoto struct {
	ID      int64  `json:"id"`
	Photo   string `json:"photo"`
	Caption string `json:"descr"`
	Year    int    `json:"year"`
}

// Treatment records one pesticide or fungicide application.
type Treatment struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	DateSpraying string `json:"date_spraying"`
}

// Group is a rose classification group, used for list filtering.
type Group struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Breeder is a rose breeder.
type Breeder struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Country string `json:"country"`
}

// Page is one page of list results as reported by the server.
type Page struct {
	Results []Rose `json:"results"`
	Count   int    `json:"count"`
}
