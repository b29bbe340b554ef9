package models

type ContactMessage struct {
	ID        int64  `json:"id,omitempty"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone,omitempty"`
	Subject   string `json:"subject"`
	Message   string `json:"message"`
	Status    string `json:"status,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
}

type Inquiry struct {
	ID          int64  `json:"id,omitempty"`
	PropertyID  int64  `json:"property_id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Phone       string `json:"phone,omitempty"`
	Message     string `json:"message"`
	InquiryType string `json:"inquiry_type,omitempty"` // general, viewing, price, availability
	Status      string `json:"status,omitempty"`
	CreatedAt   string `json:"created_at,omitempty"`
}

type Review struct {
	ID         int64    `json:"id,omitempty"`
	PropertyID int64    `json:"property_id"`
	Rating     int      `json:"rating"`
	Title      string   `json:"title,omitempty"`
	Comment    string   `json:"comment"`
	User       *Contact `json:"user,omitempty"`
	CreatedAt  string   `json:"created_at,omitempty"`
}

type ViewingRequest struct {
	ID            int64  `json:"id,omitempty"`
	PropertyID    int64  `json:"property_id"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	PreferredDate string `json:"preferred_date"`
	PreferredTime string `json:"preferred_time"`
	Message       string `json:"message,omitempty"`
	Status        string `json:"status,omitempty"`
	CreatedAt     string `json:"created_at,omitempty"`
}

type AgentContact struct {
	ID         int64  `json:"id,omitempty"`
	AgentID    int64  `json:"agent_id,omitempty"`
	PropertyID int64  `json:"property_id,omitempty"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone,omitempty"`
	Message    string `json:"message"`
	CreatedAt  string `json:"created_at,omitempty"`
}

type NewsletterSubscription struct {
	Email       string   `json:"email"`
	Name        string   `json:"name,omitempty"`
	Preferences []string `json:"preferences,omitempty"`
	Frequency   string   `json:"frequency,omitempty"` // daily, weekly, monthly
}

type NewsletterStatus struct {
	Email        string   `json:"email"`
	Subscribed   bool     `json:"subscribed"`
	Preferences  []string `json:"preferences,omitempty"`
	Frequency    string   `json:"frequency,omitempty"`
	SubscribedAt string   `json:"subscribed_at,omitempty"`
}

type PropertyView struct {
	ID         int64     `json:"id,omitempty"`
	PropertyID int64     `json:"property_id"`
	UserID     *int64    `json:"user_id,omitempty"`
	Source     string    `json:"source,omitempty"`
	ViewedAt   string    `json:"viewed_at,omitempty"`
	Property   *Property `json:"property,omitempty"`
}

type ViewStatistics struct {
	TotalViews    int            `json:"total_views"`
	UniqueViewers int            `json:"unique_viewers"`
	ViewsToday    int            `json:"views_today"`
	ViewsThisWeek int            `json:"views_this_week"`
	ByProperty    map[string]int `json:"by_property,omitempty"`
}
