package model

// Language selects the output language of the aggregated feed.
type Language string

const (
	LanguageEnglish Language = "en"
	LanguageKannada Language = "kn"
)

// Region selects the geographic scope of a fetch. Saved and ReadLater are
// pseudo-regions projected from the bookmark store, never fetched.
type Region string

const (
	RegionGlobal    Region = "Global"
	RegionCountry   Region = "India"
	RegionState     Region = "Karnataka"
	RegionCity      Region = "Local"
	RegionSaved     Region = "Saved"
	RegionReadLater Region = "Read Later"
)

// Genre is the fixed category set requested from the content service.
type Genre string

const (
	GenreAll            Genre = "All"
	GenreTrending       Genre = "Trending"
	GenrePolitics       Genre = "Politics"
	GenreCurrentAffairs Genre = "Current Affairs"
	GenreSports         Genre = "Sports"
	GenreEntertainment  Genre = "Entertainment"
	GenreBusiness       Genre = "Business"
	GenreTech           Genre = "Technology"
	GenreHealth         Genre = "Health"
	GenreCrime          Genre = "Crime"
	GenreEducation      Genre = "Education"
)

// NewsItem represents a single aggregated story. Timestamp is the display
// string produced by the content service ("2 hours ago"), not a machine time.
type NewsItem struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	Summary         string `json:"summary"`
	FullDescription string `json:"fullDescription,omitempty"`
	Source          string `json:"source"`
	SourceURL       string `json:"sourceUrl"`
	Timestamp       string `json:"timestamp"`
	Category        Genre  `json:"category"`
	Region          string `json:"region"`
	ImageURL        string `json:"imageUrl,omitempty"`
	IsUrgent        bool   `json:"isUrgent"`
	IsVerified      bool   `json:"isVerified"`
}

// BookmarkKind distinguishes the two bookmark lists.
type BookmarkKind string

const (
	BookmarkSaved     BookmarkKind = "saved"
	BookmarkReadLater BookmarkKind = "read_later"
)

// Reaction is the per-(user, article) sentiment value.
type Reaction string

const (
	ReactionUp   Reaction = "up"
	ReactionDown Reaction = "down"
	ReactionNone Reaction = ""
)

// Bookmark is a (user, article, kind) membership record carrying a snapshot
// of the article at save time.
type Bookmark struct {
	UserID  string       `json:"user_id"`
	NewsID  string       `json:"news_id"`
	Kind    BookmarkKind `json:"type"`
	Content NewsItem     `json:"content"`
}

// UserInterest is one (category, region) pair a user follows; the for-you
// feed is assembled from these.
type UserInterest struct {
	UserID   string `json:"user_id"`
	Category string `json:"category"`
	Region   string `json:"region"`
}
