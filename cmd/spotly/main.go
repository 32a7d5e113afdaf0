// Command spotly is a terminal client for the Spotly API. It keeps the
// signed-in session in a JSON file so commands compose across
// invocations.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"

	spotly "github.com/spotly/spotly-go"
	"github.com/spotly/spotly-go/middleware"
)

type CLI struct {
	APIURL      string `help:"Spotly API root." env:"SPOTLY_API_URL" default:"http://localhost:5000/api/v1"`
	UploadsURL  string `help:"Base URL uploaded images are served from." env:"SPOTLY_UPLOADS_URL" default:"http://localhost:5000/uploads"`
	SessionFile string `help:"Where the signed-in session is persisted." env:"SPOTLY_SESSION_FILE"`
	Verbose     bool   `help:"Log every API call." short:"v"`

	Login  LoginCmd  `cmd:"" help:"Sign in and persist the session."`
	Logout LogoutCmd `cmd:"" help:"Sign out and clear the session."`
	Whoami WhoamiCmd `cmd:"" help:"Print the signed-in account."`

	Posts      PostsCmd      `cmd:"" help:"List, map, create and delete posts."`
	Tags       TagsCmd       `cmd:"" help:"Manage tags."`
	Categories CategoriesCmd `cmd:"" help:"List categories."`
	Reviews    ReviewsCmd    `cmd:"" help:"List and add post reviews."`
	Favorites  FavoritesCmd  `cmd:"" help:"List and toggle favorites."`
	Comments   CommentsCmd   `cmd:"" help:"List and add task comments."`
}

// appContext carries the shared client into each command's Run.
type appContext struct {
	ctx    context.Context
	client *spotly.Client
}

type LoginCmd struct {
	Email    string `arg:"" help:"Account email."`
	Password string `arg:"" help:"Account password."`
}

func (c *LoginCmd) Run(app *appContext) error {
	err := app.client.Users().Login(app.ctx, spotly.Credentials{
		Email:    c.Email,
		Password: c.Password,
	})
	if err != nil {
		return err
	}
	fmt.Printf("signed in as user %d\n", app.client.Session().UserID())
	return nil
}

type LogoutCmd struct{}

func (c *LogoutCmd) Run(app *appContext) error {
	return app.client.Users().Logout()
}

type WhoamiCmd struct{}

func (c *WhoamiCmd) Run(app *appContext) error {
	if !app.client.Session().LoggedIn() {
		fmt.Println("not signed in")
		return nil
	}
	user, err := app.client.Users().Current(app.ctx)
	if err != nil {
		return err
	}
	fmt.Printf("%s (id %d)\n", user.Username, user.ID)
	return nil
}

type PostsCmd struct {
	List   PostsListCmd   `cmd:"" default:"1" help:"List posts, optionally filtered."`
	Map    PostsMapCmd    `cmd:"" help:"Print map markers and viewport for located posts."`
	Create PostsCreateCmd `cmd:"" help:"Create a post."`
	Delete PostsDeleteCmd `cmd:"" help:"Delete a post."`
}

type PostsListCmd struct {
	Mine   bool   `help:"Only the signed-in user's posts."`
	Status string `help:"Status filter (NATURA, URBAN, RURAL or all)." default:"all"`
	Tag    string `help:"Tag filter (a tag name, all, or no-tag)." default:"all"`
	Search string `help:"Free-text search over title, content and author."`
}

func (c *PostsListCmd) Run(app *appContext) error {
	var (
		posts []spotly.Post
		err   error
	)
	if c.Mine {
		posts, err = app.client.Posts().ListMine(app.ctx)
	} else {
		posts, err = app.client.Posts().List(app.ctx)
	}
	if err != nil {
		return err
	}

	posts = spotly.FilterPosts(posts, c.Status, c.Tag, c.Search)
	for _, p := range posts {
		tag := "-"
		if p.TagName != nil && *p.TagName != "" {
			tag = *p.TagName
		}
		fmt.Printf("%d\t%-6s\t%-12s\t%s (by %s)\n", p.ID, p.Status, tag, p.Title, p.Username)
	}
	fmt.Printf("%d post(s)\n", len(posts))
	return nil
}

type PostsMapCmd struct{}

func (c *PostsMapCmd) Run(app *appContext) error {
	posts, err := app.client.Posts().List(app.ctx)
	if err != nil {
		return err
	}

	markers, viewport, ok := spotly.PlaceMarkers(posts)
	if !ok {
		fmt.Println("no posts carry coordinates")
		return nil
	}
	for _, m := range markers {
		fmt.Printf("%d\t%.6f,%.6f\t%s\n", m.Post.ID, m.Latitude, m.Longitude, m.Post.Title)
	}
	if viewport.Bounds.IsPoint() {
		fmt.Printf("center %.6f,%.6f zoom %d\n",
			viewport.CenterLatitude, viewport.CenterLongitude, viewport.Zoom)
	} else {
		fmt.Printf("fit [%.6f,%.6f]..[%.6f,%.6f] maxZoom %d padding %dpx\n",
			viewport.Bounds.MinLatitude, viewport.Bounds.MinLongitude,
			viewport.Bounds.MaxLatitude, viewport.Bounds.MaxLongitude,
			viewport.MaxZoom, viewport.PaddingPx)
	}
	return nil
}

type PostsCreateCmd struct {
	Title     string   `arg:"" help:"Post title."`
	Content   string   `help:"Post body." required:""`
	Status    string   `help:"NATURA, URBAN or RURAL." required:""`
	Tag       string   `help:"Tag id." required:"" name:"tag"`
	Latitude  *float64 `help:"Latitude (requires --longitude)."`
	Longitude *float64 `help:"Longitude (requires --latitude)."`
	Image     string   `help:"Path to an image to attach." type:"existingfile"`
}

func (c *PostsCreateCmd) Run(app *appContext) error {
	form := spotly.PostForm{
		Title:     c.Title,
		Content:   c.Content,
		Status:    spotly.Status(strings.ToUpper(c.Status)),
		TagID:     c.Tag,
		Latitude:  c.Latitude,
		Longitude: c.Longitude,
	}

	var image *spotly.PostImage
	if c.Image != "" {
		f, err := os.Open(c.Image)
		if err != nil {
			return err
		}
		defer f.Close()
		image = &spotly.PostImage{Filename: filepath.Base(c.Image), Reader: f}
	}
	return app.client.Posts().Create(app.ctx, form, image)
}

type PostsDeleteCmd struct {
	ID int `arg:"" help:"Post id."`
}

func (c *PostsDeleteCmd) Run(app *appContext) error {
	return app.client.Posts().Delete(app.ctx, c.ID)
}

type TagsCmd struct {
	List       TagsListCmd       `cmd:"" default:"1" help:"List tags."`
	Create     TagsCreateCmd     `cmd:"" help:"Create a tag."`
	Delete     TagsDeleteCmd     `cmd:"" help:"Delete a tag."`
	BulkDelete TagsBulkDeleteCmd `cmd:"" name:"bulk-delete" help:"Delete several tags at once."`
}

type TagsListCmd struct{}

func (c *TagsListCmd) Run(app *appContext) error {
	tags, err := app.client.Tags().List(app.ctx)
	if err != nil {
		return err
	}
	for _, t := range tags {
		fmt.Printf("%d\t%s\n", t.ID, t.Name)
	}
	return nil
}

type TagsCreateCmd struct {
	Name string `arg:"" help:"Tag name."`
}

func (c *TagsCreateCmd) Run(app *appContext) error {
	return app.client.Tags().Create(app.ctx, spotly.TagForm{Name: c.Name})
}

type TagsDeleteCmd struct {
	ID int `arg:"" help:"Tag id."`
}

func (c *TagsDeleteCmd) Run(app *appContext) error {
	return app.client.Tags().Delete(app.ctx, c.ID)
}

type TagsBulkDeleteCmd struct {
	IDs []int `arg:"" help:"Tag ids."`
}

func (c *TagsBulkDeleteCmd) Run(app *appContext) error {
	return app.client.Tags().BulkDelete(app.ctx, c.IDs)
}

type CategoriesCmd struct {
	List CategoriesListCmd `cmd:"" default:"1" help:"List categories."`
}

type CategoriesListCmd struct{}

func (c *CategoriesListCmd) Run(app *appContext) error {
	categories, err := app.client.Categories().List(app.ctx)
	if err != nil {
		return err
	}
	for _, cat := range categories {
		desc := ""
		if cat.Description != nil {
			desc = *cat.Description
		}
		fmt.Printf("%d\t%s\t%s\t%s\n", cat.ID, cat.Name, cat.Color, desc)
	}
	return nil
}

type ReviewsCmd struct {
	List ReviewsListCmd `cmd:"" default:"1" help:"List a post's reviews."`
	Add  ReviewsAddCmd  `cmd:"" help:"Review a post."`
}

type ReviewsListCmd struct {
	PostID int `arg:"" help:"Post id."`
}

func (c *ReviewsListCmd) Run(app *appContext) error {
	reviews, err := app.client.Reviews().ListByPost(app.ctx, c.PostID)
	if err != nil {
		return err
	}
	for _, r := range reviews.Reviews {
		fmt.Printf("%d\t%d/5\t%s: %s\n", r.ID, r.Rating, r.Username, r.Comment)
	}
	fmt.Printf("%.1f average over %d review(s)\n", reviews.AverageRating, reviews.TotalReviews)
	return nil
}

type ReviewsAddCmd struct {
	PostID  int    `arg:"" help:"Post id."`
	Rating  int    `help:"Stars, 1 to 5." required:""`
	Comment string `help:"Review text." required:""`
}

func (c *ReviewsAddCmd) Run(app *appContext) error {
	review, err := app.client.Reviews().Create(app.ctx, c.PostID, spotly.ReviewForm{
		Rating:  c.Rating,
		Comment: c.Comment,
	})
	if err != nil {
		return err
	}
	fmt.Printf("review %d created\n", review.ID)
	return nil
}

type FavoritesCmd struct {
	List   FavoritesListCmd   `cmd:"" default:"1" help:"List favorites."`
	Toggle FavoritesToggleCmd `cmd:"" help:"Favorite a post, or unfavorite it if already favorited."`
}

type FavoritesListCmd struct{}

func (c *FavoritesListCmd) Run(app *appContext) error {
	favorites, err := app.client.Favorites().List(app.ctx)
	if err != nil {
		return err
	}
	for _, f := range favorites {
		notes := ""
		if f.Notes != nil {
			notes = *f.Notes
		}
		fmt.Printf("%d\tpost %d\t%s\t%s\n", f.ID, f.Post.ID, f.Post.Title, notes)
	}
	return nil
}

type FavoritesToggleCmd struct {
	PostID int `arg:"" help:"Post id."`
}

func (c *FavoritesToggleCmd) Run(app *appContext) error {
	favorited, err := app.client.Favorites().Toggle(app.ctx, c.PostID)
	if err != nil {
		return err
	}
	if favorited {
		fmt.Printf("post %d favorited\n", c.PostID)
	} else {
		fmt.Printf("post %d unfavorited\n", c.PostID)
	}
	return nil
}

type CommentsCmd struct {
	List CommentsListCmd `cmd:"" default:"1" help:"List a task's comments."`
	Add  CommentsAddCmd  `cmd:"" help:"Comment on a task."`
}

type CommentsListCmd struct {
	TaskID int `arg:"" help:"Task id."`
}

func (c *CommentsListCmd) Run(app *appContext) error {
	comments, err := app.client.Comments().ListByTask(app.ctx, c.TaskID)
	if err != nil {
		return err
	}
	for _, cm := range comments {
		fmt.Printf("%d\t%s: %s\n", cm.ID, cm.Username, cm.Content)
	}
	return nil
}

type CommentsAddCmd struct {
	TaskID  int    `arg:"" help:"Task id."`
	Content string `arg:"" help:"Comment text."`
}

func (c *CommentsAddCmd) Run(app *appContext) error {
	return app.client.Comments().Create(app.ctx, c.TaskID, spotly.CommentForm{Content: c.Content})
}

func defaultSessionFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".spotly-session.json"
	}
	return filepath.Join(dir, "spotly", "session.json")
}

func main() {
	// Missing .env is fine; flags and real env still apply.
	_ = godotenv.Load()

	cli := &CLI{}
	kctx := kong.Parse(cli,
		kong.Name("spotly"),
		kong.Description("Terminal client for the Spotly API."),
		kong.UsageOnError(),
	)

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))
	if cli.Verbose {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
	}

	sessionFile := cli.SessionFile
	if sessionFile == "" {
		sessionFile = defaultSessionFile()
	}
	store, err := spotly.NewFileStore(sessionFile)
	kctx.FatalIfErrorf(err)
	session, err := spotly.LoadSession(store)
	kctx.FatalIfErrorf(err)

	client := spotly.New(
		spotly.WithBaseURL(cli.APIURL),
		spotly.WithUploadsURL(cli.UploadsURL),
		spotly.WithSession(session),
		spotly.WithLogger(logger),
		spotly.WithCallInterceptor(middleware.Logging(logger)),
	)

	app := &appContext{ctx: context.Background(), client: client}
	err = kctx.Run(app)
	kctx.FatalIfErrorf(err)
}
