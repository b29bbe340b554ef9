package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"

	"vesta_nest/api"
	"vesta_nest/models"
	"vesta_nest/search"
	"vesta_nest/storage"
	"vesta_nest/styles"
)

var errUsage = errors.New("usage")

// userMessage is the line shown for a failed command. Backend errors go through
// the normalizer; local errors already read as messages.
func userMessage(err error) string {
	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		return api.Normalize(err).Message
	}
	return err.Error()
}

func (a *app) run(ctx context.Context, args []string) error {
	cmd, rest := args[0], args[1:]
	switch cmd {
	case "properties":
		return a.runProperties(ctx, rest)
	case "amenities":
		return a.runAmenities(ctx, rest)
	case "search":
		return a.runSearch(ctx, rest)
	case "suggest":
		return a.runSuggest(ctx, rest)
	case "popular":
		return a.runPopular(ctx)
	case "trending":
		return a.runTrending(ctx)
	case "history":
		return a.runHistory(ctx, rest)
	case "saved":
		return a.runSaved(ctx, rest)
	case "analytics":
		return a.runAnalytics(ctx)
	case "login", "signup", "verify", "resend-otp", "forgot-password", "reset-password",
		"profile", "change-password", "logout":
		return a.runAccount(ctx, cmd, rest)
	case "contact", "inquire", "review", "reviews", "viewing", "contact-agent":
		return a.runCommunication(ctx, cmd, rest)
	case "newsletter":
		return a.runNewsletter(ctx, rest)
	case "views":
		return a.runViews(ctx, rest)
	case "alerts":
		return a.runAlerts(ctx, rest)
	case "storage":
		return a.runStorage(ctx, rest)
	default:
		return errUsage
	}
}

func newFlags(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	return fs
}

func parseID(args []string) (int64, error) {
	if len(args) == 0 {
		return 0, errUsage
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q", args[0])
	}
	return id, nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (a *app) printProperties(props []models.Property) {
	a.writeProperties(os.Stdout, props)
}

func (a *app) writeProperties(out io.Writer, props []models.Property) {
	var buf bytes.Buffer
	w := tabwriter.NewWriter(&buf, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tTYPE\tPRICE\tBEDS\tCITY\tIMAGE")
	for _, p := range props {
		price := p.FormattedPrice
		if price == "" {
			price = p.Price
		}
		title := p.Title
		if p.IsFeaturedListing() {
			title += " *"
		}
		fmt.Fprintf(w, "%d\t%s\t%s/%s\t%s\t%d\t%s\t%s\n",
			p.ID, title, p.PropertyType, p.PriceType, price, p.Bedrooms, p.City, p.PrimaryImage(a.client.MediaURL))
	}
	w.Flush()

	// style after alignment so escape codes do not skew the columns
	header, rows, _ := strings.Cut(buf.String(), "\n")
	fmt.Fprintln(out, styles.TableHeader.Render(header))
	fmt.Fprint(out, rows)
}

// filterFlags registers the search filter flags on fs and returns a function
// that applies the parsed values.
func filterFlags(fs *flag.FlagSet) func(*search.Filters) {
	term := fs.String("q", "", "search term")
	propType := fs.String("type", "", "property type (apartment, house, villa, land, commercial)")
	priceType := fs.String("price-type", "", "sale or rent")
	location := fs.String("location", "", "location")
	status := fs.String("status", "", "listing status")
	minPrice := fs.Float64("min-price", 0, "minimum price")
	maxPrice := fs.Float64("max-price", 0, "maximum price (0 = no limit)")
	minBeds := fs.Int("min-beds", 0, "minimum bedrooms")
	maxBeds := fs.Int("max-beds", 0, "maximum bedrooms (0 = no limit)")
	minBaths := fs.Int("min-baths", 0, "minimum bathrooms")
	minArea := fs.Float64("min-area", 0, "minimum area")
	maxArea := fs.Float64("max-area", 0, "maximum area (0 = no limit)")
	amenities := fs.String("amenities", "", "comma-separated amenity ids")
	featured := fs.String("featured", "", "true or false")
	rating := fs.Float64("min-rating", 0, "minimum rating")
	sortBy := fs.String("sort", "", "sort field")
	order := fs.String("order", "", "asc or desc")

	return func(f *search.Filters) {
		if *term != "" {
			f.SearchTerm = *term
		}
		setString(&f.PropertyType, *propType)
		setString(&f.PriceType, *priceType)
		setString(&f.Location, *location)
		setString(&f.Status, *status)
		setString(&f.SortBy, *sortBy)
		setString(&f.SortOrder, *order)

		if *minPrice > 0 {
			f.PriceRange[0] = *minPrice
		}
		if *maxPrice > 0 {
			f.PriceRange[1] = *maxPrice
		}
		if *minBeds > 0 {
			f.Bedrooms[0] = *minBeds
		}
		if *maxBeds > 0 {
			f.Bedrooms[1] = *maxBeds
		}
		if *minBaths > 0 {
			f.Bathrooms[0] = *minBaths
		}
		if *minArea > 0 {
			f.AreaRange[0] = *minArea
		}
		if *maxArea > 0 {
			f.AreaRange[1] = *maxArea
		}
		if *amenities != "" {
			f.Amenities = nil
			for _, part := range strings.Split(*amenities, ",") {
				if id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64); err == nil {
					f.Amenities = append(f.Amenities, id)
				}
			}
		}
		if b, err := strconv.ParseBool(*featured); err == nil {
			f.Featured = &b
		}
		if *rating > 0 {
			f.MinRating = *rating
		}
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func (a *app) runProperties(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage
	}
	switch args[0] {
	case "list":
		fs := newFlags("properties list")
		page := fs.Int("page", 1, "page number")
		perPage := fs.Int("per-page", 12, "results per page")
		all := fs.Bool("all", false, "follow every page")
		apply := filterFlags(fs)
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		f := search.DefaultFilters()
		apply(&f)
		f.Normalize()
		params := search.ToListParams(f, *page, *perPage)

		if *all {
			props, err := a.properties.ListAll(ctx, params, 0)
			if err != nil {
				return err
			}
			a.printProperties(props)
			fmt.Println(styles.Muted.Render(humanize.Comma(int64(len(props))) + " properties"))
			return nil
		}

		res, err := a.properties.List(ctx, params)
		if err != nil {
			return err
		}
		a.printProperties(res.Properties)
		printPagination(res.Pagination)
		return nil

	case "show":
		id, err := parseID(args[1:])
		if err != nil {
			return err
		}
		p, err := a.properties.Show(ctx, id)
		if err != nil {
			return err
		}
		if _, err := a.views.Record(ctx, id, "cli"); err != nil {
			slog.Warn("record property view", "id", id, "error", err)
		}
		fmt.Println(styles.Title.Render(p.Title))
		fmt.Printf("%s, %s, %s\n", p.Address, p.City, p.Country)
		fmt.Printf("%s %s\n", styles.Price.Render(p.FormattedPrice), styles.Muted.Render("for "+p.PriceType))
		fmt.Printf("%d bed / %d bath / %s %s\n", p.Bedrooms, p.Bathrooms, humanize.Commaf(p.Area), p.AreaUnit)
		if p.IsFeaturedListing() {
			fmt.Println(styles.Featured.Render("Featured"))
		}
		if desc := p.PlainDescription(); desc != "" {
			fmt.Println(styles.Card.Width(80).Render(desc))
		}
		for _, u := range p.ImageURLs(a.client.MediaURL) {
			fmt.Println(styles.Muted.Render(u))
		}
		return nil

	case "featured":
		fs := newFlags("properties featured")
		limit := fs.Int("limit", 0, "maximum results")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		props, err := a.properties.Featured(ctx, *limit)
		if err != nil {
			return err
		}
		a.printProperties(props)
		return nil

	case "stats":
		stats, err := a.properties.Statistics(ctx)
		if err != nil {
			return err
		}
		return printJSON(stats)
	}
	return errUsage
}

func (a *app) runAmenities(ctx context.Context, args []string) error {
	var (
		list []models.Amenity
		err  error
	)
	switch {
	case len(args) == 0:
		list, err = a.amenities.List(ctx)
	case args[0] == "popular":
		list, err = a.amenities.Popular(ctx, 10)
	case args[0] == "show":
		id, perr := parseID(args[1:])
		if perr != nil {
			return perr
		}
		am, err := a.amenities.Show(ctx, id)
		if err != nil {
			return err
		}
		return printJSON(am)
	default:
		return errUsage
	}
	if err != nil {
		return err
	}
	for _, am := range list {
		fmt.Printf("%d\t%s\t%s\n", am.ID, am.Name, am.Category)
	}
	return nil
}

func (a *app) runSearch(ctx context.Context, args []string) error {
	fs := newFlags("search")
	page := fs.Int("page", 1, "page number")
	perPage := fs.Int("per-page", 12, "results per page")
	apply := filterFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		term := strings.Join(fs.Args(), " ")
		a.search.UpdateFilters(func(f *search.Filters) { f.SearchTerm = term })
	}
	a.search.UpdateFilters(apply)

	f := a.search.Filters()
	res, err := a.properties.List(ctx, search.ToListParams(f, *page, *perPage))
	if err != nil {
		return err
	}

	fmt.Println(styles.Title.Render(a.search.Summary()) + " " +
		styles.Muted.Render(fmt.Sprintf("(%d active filters)", a.search.FilterCount())))
	a.printProperties(res.Properties)
	printPagination(res.Pagination)

	return a.search.SaveToHistory(ctx, f.SearchTerm, res.Pagination.Total)
}

func (a *app) runSuggest(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage
	}
	suggestions, err := a.backend.Suggestions(ctx, strings.Join(args, " "), 10)
	if err != nil {
		return err
	}
	for _, s := range suggestions {
		fmt.Printf("%s\t%s\t%d\n", s.Text, s.Type, s.Count)
	}
	return nil
}

func (a *app) runPopular(ctx context.Context) error {
	popular, err := a.backend.PopularSearches(ctx, 10)
	if err != nil {
		return err
	}
	for _, p := range popular {
		fmt.Printf("%s\t%s\n", p.Query, humanize.Comma(int64(p.Count)))
	}
	return nil
}

func (a *app) runTrending(ctx context.Context) error {
	locations, err := a.backend.TrendingLocations(ctx, 10)
	if err != nil {
		return err
	}
	for _, l := range locations {
		fmt.Printf("%s\t%d properties\t+%.1f%%\n", l.Name, l.PropertyCount, l.Growth)
	}
	return nil
}

func (a *app) runHistory(ctx context.Context, args []string) error {
	if len(args) > 0 && args[0] == "clear" {
		if err := a.search.ClearHistory(ctx); err != nil {
			return err
		}
		styles.Success("Search history cleared")
		return nil
	}

	entries, err := a.search.LoadHistory(ctx)
	if err != nil {
		return err
	}
	for _, e := range entries {
		fmt.Printf("%s\t%s\t%s\t%s results\n",
			styles.Muted.Render(humanize.Time(e.Timestamp)), e.Query, search.Summary(e.Filters), humanize.Comma(int64(e.ResultsCount)))
	}
	return nil
}

func (a *app) runSaved(ctx context.Context, args []string) error {
	if len(args) == 0 || args[0] == "list" {
		saved, err := a.search.LoadSavedSearches(ctx)
		if err != nil {
			return err
		}
		for _, s := range saved {
			fmt.Printf("%s\t%s\t%s\t%s\t%s\n", s.ID, s.Name, search.Summary(s.Filters), s.NotificationFrequency, styles.ActiveLabel(s.IsActive))
		}
		return nil
	}

	switch args[0] {
	case "save":
		fs := newFlags("saved save")
		name := fs.String("name", "", "name for the saved search")
		freq := fs.String("frequency", "", "alert frequency: instant, daily or weekly")
		apply := filterFlags(fs)
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		a.search.UpdateFilters(apply)
		saved, err := a.search.SaveSearch(ctx, *name, *freq)
		if err != nil {
			return err
		}
		styles.Success("Saved %q (%s)", saved.Name, saved.ID)
		return nil

	case "delete":
		if len(args) < 2 {
			return errUsage
		}
		return a.search.DeleteSavedSearch(ctx, args[1])

	case "activate", "pause":
		if len(args) < 2 {
			return errUsage
		}
		saved, err := a.search.LoadSavedSearches(ctx)
		if err != nil {
			return err
		}
		for _, s := range saved {
			if s.ID == args[1] {
				s.IsActive = args[0] == "activate"
				_, err := a.search.UpdateSavedSearch(ctx, s.ID, s)
				return err
			}
		}
		return search.ErrSavedSearchNotFound
	}
	return errUsage
}

func (a *app) runAnalytics(ctx context.Context) error {
	stats, err := a.backend.Analytics(ctx)
	if err != nil {
		return err
	}
	return printJSON(stats)
}

func (a *app) runAccount(ctx context.Context, cmd string, args []string) error {
	fs := newFlags(cmd)
	name := fs.String("name", "", "full name")
	email := fs.String("email", "", "email address")
	phone := fs.String("phone", "", "phone number")
	password := fs.String("password", "", "password")
	newPassword := fs.String("new-password", "", "new password")
	otp := fs.String("otp", "", "one-time code from email")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var (
		msg *models.MessageResponse
		err error
	)
	switch cmd {
	case "login":
		user, err := a.session.Login(ctx, *email, *password)
		if err != nil {
			return err
		}
		styles.Success("Signed in as %s <%s>", user.Name, user.Email)
		return nil

	case "signup":
		res, err := a.session.Signup(ctx, models.RegisterRequest{
			Name: *name, Email: *email, Phone: *phone,
			Password: *password, PasswordConfirmation: *password,
		})
		if err != nil {
			return err
		}
		if res.Token == "" {
			fmt.Println("Account created. Check your email for a verification code, then run: vesta_nest verify -email ... -otp ...")
			return nil
		}
		styles.Success("Account created and signed in")
		return nil

	case "verify":
		res, err := a.session.VerifyEmail(ctx, *email, *otp)
		if err != nil {
			return err
		}
		if res.Token != "" {
			styles.Success("Email verified, signed in")
		} else {
			styles.Success("Email verified")
		}
		return nil

	case "resend-otp":
		msg, err = a.session.ResendOTP(ctx, *email)
	case "forgot-password":
		msg, err = a.session.ForgotPassword(ctx, *email)
	case "reset-password":
		msg, err = a.session.ResetPassword(ctx, models.ResetPasswordRequest{
			Email: *email, OTP: *otp, Password: *newPassword, PasswordConfirmation: *newPassword,
		})
	case "change-password":
		msg, err = a.session.ChangePassword(ctx, models.ChangePasswordRequest{
			CurrentPassword: *password, NewPassword: *newPassword, NewPasswordConfirmation: *newPassword,
		})

	case "profile":
		var user *models.User
		if fs.NArg() > 0 && fs.Arg(0) == "update" {
			user, err = a.session.UpdateProfile(ctx, models.ProfileUpdate{Name: *name, Email: *email, Phone: *phone})
		} else {
			user, err = a.session.Refresh(ctx)
		}
		if err != nil {
			return err
		}
		return printJSON(user)

	case "logout":
		a.session.Logout(ctx)
		styles.Success("Signed out")
		return nil
	}

	if err != nil {
		return err
	}
	styles.Success("%s", msg.Message)
	return nil
}

func (a *app) runCommunication(ctx context.Context, cmd string, args []string) error {
	fs := newFlags(cmd)
	propertyID := fs.Int64("property", 0, "property id")
	agentID := fs.Int64("agent", 0, "agent id")
	name := fs.String("name", "", "your name")
	email := fs.String("email", "", "your email")
	phone := fs.String("phone", "", "your phone")
	subject := fs.String("subject", "", "subject")
	message := fs.String("message", "", "message")
	rating := fs.Int("rating", 0, "rating 1-5")
	date := fs.String("date", "", "preferred date (YYYY-MM-DD)")
	at := fs.String("time", "", "preferred time (HH:MM)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var (
		out any
		err error
	)
	switch cmd {
	case "contact":
		out, err = a.comms.CreateContactMessage(ctx, models.ContactMessage{
			Name: *name, Email: *email, Phone: *phone, Subject: *subject, Message: *message,
		})
	case "inquire":
		out, err = a.comms.CreateInquiry(ctx, models.Inquiry{
			PropertyID: *propertyID, Name: *name, Email: *email, Phone: *phone, Message: *message,
		})
	case "review":
		out, err = a.comms.CreateReview(ctx, models.Review{PropertyID: *propertyID, Rating: *rating, Comment: *message})
	case "reviews":
		out, err = a.comms.PropertyReviews(ctx, *propertyID)
	case "viewing":
		out, err = a.comms.ScheduleViewing(ctx, models.ViewingRequest{
			PropertyID: *propertyID, Name: *name, Email: *email, Phone: *phone,
			PreferredDate: *date, PreferredTime: *at, Message: *message,
		})
	case "contact-agent":
		out, err = a.comms.ContactAgent(ctx, models.AgentContact{
			AgentID: *agentID, PropertyID: *propertyID, Name: *name, Email: *email, Phone: *phone, Message: *message,
		})
	}
	if err != nil {
		return err
	}
	return printJSON(out)
}

func (a *app) runNewsletter(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage
	}
	fs := newFlags("newsletter " + args[0])
	email := fs.String("email", "", "email address")
	name := fs.String("name", "", "name")
	frequency := fs.String("frequency", "", "daily, weekly or monthly")
	prefs := fs.String("preferences", "", "comma-separated topics")
	if err := fs.Parse(args[1:]); err != nil {
		return err
	}

	sub := models.NewsletterSubscription{Email: *email, Name: *name, Frequency: *frequency}
	if *prefs != "" {
		sub.Preferences = strings.Split(*prefs, ",")
	}

	var (
		msg *models.MessageResponse
		err error
	)
	switch args[0] {
	case "subscribe":
		msg, err = a.newsletter.Subscribe(ctx, sub)
	case "preferences":
		msg, err = a.newsletter.UpdatePreferences(ctx, sub)
	case "unsubscribe":
		msg, err = a.newsletter.Unsubscribe(ctx, *email)
	case "status":
		status, err := a.newsletter.Status(ctx, *email)
		if err != nil {
			return err
		}
		return printJSON(status)
	default:
		return errUsage
	}
	if err != nil {
		return err
	}
	styles.Success("%s", msg.Message)
	return nil
}

func (a *app) runViews(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage
	}
	var (
		out any
		err error
	)
	switch args[0] {
	case "record":
		id, perr := parseID(args[1:])
		if perr != nil {
			return perr
		}
		out, err = a.views.Record(ctx, id, "cli")
	case "property":
		id, perr := parseID(args[1:])
		if perr != nil {
			return perr
		}
		out, err = a.views.ForProperty(ctx, id)
	case "mine":
		out, err = a.views.MyViews(ctx)
	case "stats":
		out, err = a.views.Statistics(ctx)
	default:
		return errUsage
	}
	if err != nil {
		return err
	}
	return printJSON(out)
}

func printPagination(p models.Pagination) {
	fmt.Println(styles.Muted.Render(fmt.Sprintf("page %d of %d (%s total)", p.CurrentPage, p.LastPage, humanize.Comma(int64(p.Total)))))
}

func (a *app) runStorage(ctx context.Context, args []string) error {
	inspector, ok := a.store.(storage.Inspector)
	if !ok {
		return fmt.Errorf("storage driver %q cannot list keys", a.cfg.Storage.Driver)
	}
	if len(args) == 0 {
		return errUsage
	}
	switch args[0] {
	case "keys":
		prefix := ""
		if len(args) > 1 {
			prefix = args[1]
		}
		keys, err := inspector.Keys(ctx, prefix)
		if err != nil {
			return err
		}
		for _, k := range keys {
			fmt.Println(k)
		}
		return nil
	case "reset":
		if err := inspector.Reset(ctx); err != nil {
			return err
		}
		styles.Success("local storage cleared")
		return nil
	default:
		return errUsage
	}
}
