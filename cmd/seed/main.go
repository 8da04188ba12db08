package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"socialhub/internal/config"
	"socialhub/internal/db"
	"socialhub/internal/logging"
	"socialhub/internal/model"
	"socialhub/internal/repository"
)

const demoPassword = "password123"

type seedUser struct {
	Email    string
	Username string
	Name     string
	Bio      string
}

var demoUsers = []seedUser{
	{Email: "ana@example.com", Username: "ana", Name: "Ana Lima", Bio: "Coffee and distributed systems."},
	{Email: "ben@example.com", Username: "ben", Name: "Ben Ortiz", Bio: "Weekend climber."},
	{Email: "chen@example.com", Username: "chen", Name: "Chen Wei"},
	{Email: "dana@example.com", Username: "dana", Name: "Dana Novak", Bio: "Writes about databases."},
}

var demoPosts = []struct {
	Author  string
	Content string
}{
	{"ana", "First post on the new platform!"},
	{"ben", "Anyone up for bouldering on Saturday?"},
	{"chen", "Reading about B-trees again."},
	{"dana", "Indexes are not free: every write pays for them."},
	{"ana", "Shipping a small feature today."},
}

func main() {
	logger, err := logging.New("info")
	if err != nil {
		slog.Error("logger init", "error", err)
		os.Exit(1)
	}

	if err := run(context.Background(), logger); err != nil {
		logger.Error("seed failed", "error", err)
		os.Exit(1)
	}
	logger.Info("seed completed")
}

func run(ctx context.Context, logger *slog.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	gormDB, err := db.Open(cfg.DBDriver, cfg.DatabaseDSN, db.Options{})
	if err != nil {
		return err
	}
	defer db.Close(gormDB)
	logger.Info("connected to database", "driver", cfg.DBDriver)

	if err := db.Migrate(gormDB); err != nil {
		return err
	}

	userRepo := repository.NewUserRepository(gormDB)
	postRepo := repository.NewPostRepository(gormDB)
	commentRepo := repository.NewCommentRepository(gormDB)

	users, created, err := seedUsers(ctx, userRepo)
	if err != nil {
		return err
	}
	logger.Info("users ready", "total", len(users), "created", created)
	if created == 0 {
		logger.Info("demo users already present, skipping content")
		return nil
	}

	byUsername := lo.KeyBy(users, func(u *model.User) string { return u.Username })

	// everyone follows ana; ana follows ben
	follows := append(
		lo.FilterMap(users, func(u *model.User, _ int) (*model.Follow, bool) {
			return &model.Follow{FollowerID: u.ID, FollowingID: byUsername["ana"].ID}, u.Username != "ana"
		}),
		&model.Follow{FollowerID: byUsername["ana"].ID, FollowingID: byUsername["ben"].ID},
	)
	for _, f := range follows {
		if err := userRepo.Follow(ctx, f); err != nil && !errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("follow: %w", err)
		}
	}

	posts := make([]*model.Post, 0, len(demoPosts))
	for _, p := range demoPosts {
		post := &model.Post{Content: p.Content, AuthorID: byUsername[p.Author].ID}
		if err := postRepo.Create(ctx, post); err != nil {
			return fmt.Errorf("create post: %w", err)
		}
		posts = append(posts, post)
	}
	logger.Info("posts created", "count", len(posts))

	first := posts[0]
	top := &model.Comment{Content: "Welcome aboard!", AuthorID: byUsername["ben"].ID, PostID: first.ID}
	if err := commentRepo.Create(ctx, top); err != nil {
		return fmt.Errorf("create comment: %w", err)
	}
	reply := &model.Comment{Content: "Thanks Ben!", AuthorID: byUsername["ana"].ID, PostID: first.ID, ParentID: &top.ID}
	if err := commentRepo.Create(ctx, reply); err != nil {
		return fmt.Errorf("create reply: %w", err)
	}
	nested := &model.Comment{Content: "Glad to be here too.", AuthorID: byUsername["chen"].ID, PostID: first.ID, ParentID: &reply.ID}
	if err := commentRepo.Create(ctx, nested); err != nil {
		return fmt.Errorf("create nested reply: %w", err)
	}
	if err := commentRepo.Create(ctx, &model.Comment{
		Content:  "Which gym?",
		AuthorID: byUsername["dana"].ID,
		PostID:   posts[1].ID,
	}); err != nil {
		return fmt.Errorf("create comment: %w", err)
	}

	for _, u := range users {
		if u.ID == first.AuthorID {
			continue
		}
		if err := postRepo.AddLike(ctx, &model.Like{UserID: u.ID, PostID: first.ID}); err != nil && !errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("like: %w", err)
		}
	}

	return nil
}

// seedUsers returns the demo users, creating the ones that do not exist yet.
func seedUsers(ctx context.Context, repo repository.UserRepository) ([]*model.User, int, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(demoPassword), 10)
	if err != nil {
		return nil, 0, fmt.Errorf("hash password: %w", err)
	}

	users := make([]*model.User, 0, len(demoUsers))
	created := 0
	for _, su := range demoUsers {
		existing, err := repo.FindByUsername(ctx, su.Username)
		if err == nil {
			users = append(users, existing)
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, fmt.Errorf("find user %s: %w", su.Username, err)
		}

		user := &model.User{
			ID:       uuid.New(),
			Email:    su.Email,
			Username: su.Username,
			Password: string(hash),
			Name:     su.Name,
		}
		if su.Bio != "" {
			user.Bio = lo.ToPtr(su.Bio)
		}
		if err := repo.Create(ctx, user); err != nil {
			return nil, 0, fmt.Errorf("create user %s: %w", su.Username, err)
		}
		users = append(users, user)
		created++
	}
	return users, created, nil
}
