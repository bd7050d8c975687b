package db

import (
	"context"
	"fmt"
	"time"

	"inkwell/internal/models"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"
)

// Open 连接 Postgres 并执行自动迁移
func Open(dsn string, logger *zap.SugaredLogger) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	logger.Info("Database connection established")

	if err := db.AutoMigrate(&postRow{}, &commentRow{}); err != nil {
		return nil, fmt.Errorf("migrate database: %w", err)
	}
	logger.Info("Database migration completed")
	return db, nil
}

type postRow struct {
	ID             int    `gorm:"primaryKey;autoIncrement:false"`
	Title          string `gorm:"size:255;not null"`
	Excerpt        string `gorm:"type:text"`
	Content        string `gorm:"type:text"`
	Category       string `gorm:"size:64;index"`
	AuthorName     string `gorm:"size:128"`
	AuthorAvatar   string `gorm:"size:512"`
	AuthorInitials string `gorm:"size:16"`
	OwnerID        string `gorm:"size:128;index"`
	Date           time.Time
	Comments       []commentRow `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE"`
}

func (postRow) TableName() string { return "posts" }

// commentRow 的 ID 只在所属文章内唯一
type commentRow struct {
	PostID  int    `gorm:"primaryKey;autoIncrement:false"`
	ID      int    `gorm:"primaryKey;autoIncrement:false"`
	Author  string `gorm:"size:128"`
	Content string `gorm:"type:text"`
	Date    time.Time
}

func (commentRow) TableName() string { return "comments" }

// GormPersister stores the post snapshot in the posts and comments tables.
type GormPersister struct {
	db *gorm.DB
}

func NewGormPersister(db *gorm.DB) *GormPersister {
	return &GormPersister{db: db}
}

func (p *GormPersister) Load(ctx context.Context) ([]models.Post, error) {
	var rows []postRow
	err := p.db.WithContext(ctx).
		Preload("Comments", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Order("id").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	posts := make([]models.Post, len(rows))
	for i, r := range rows {
		posts[i] = r.toModel()
	}
	return posts, nil
}

// Save replaces the stored collection with posts in one transaction.
func (p *GormPersister) Save(ctx context.Context, posts []models.Post) error {
	return p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		all := tx.Session(&gorm.Session{AllowGlobalUpdate: true})
		if err := all.Delete(&commentRow{}).Error; err != nil {
			return err
		}
		if err := all.Delete(&postRow{}).Error; err != nil {
			return err
		}
		if len(posts) == 0 {
			return nil
		}

		rows := make([]postRow, len(posts))
		var comments []commentRow
		for i, post := range posts {
			rows[i] = fromModel(post)
			comments = append(comments, rows[i].Comments...)
			rows[i].Comments = nil
		}
		if err := tx.Omit(clause.Associations).CreateInBatches(&rows, 100).Error; err != nil {
			return err
		}
		if len(comments) > 0 {
			return tx.CreateInBatches(&comments, 100).Error
		}
		return nil
	})
}

func fromModel(p models.Post) postRow {
	row := postRow{
		ID:             p.ID,
		Title:          p.Title,
		Excerpt:        p.Excerpt,
		Content:        p.Content,
		Category:       string(p.Category),
		AuthorName:     p.Author.Name,
		AuthorAvatar:   p.Author.Avatar,
		AuthorInitials: p.Author.Initials,
		OwnerID:        p.Author.OwnerID,
		Date:           p.Date,
		Comments:       make([]commentRow, len(p.Comments)),
	}
	for i, c := range p.Comments {
		row.Comments[i] = commentRow{PostID: p.ID, ID: c.ID, Author: c.Author, Content: c.Content, Date: c.Date}
	}
	return row
}

func (r postRow) toModel() models.Post {
	post := models.Post{
		ID:       r.ID,
		Title:    r.Title,
		Excerpt:  r.Excerpt,
		Content:  r.Content,
		Category: models.Category(r.Category),
		Author: models.Author{
			Name:     r.AuthorName,
			Avatar:   r.AuthorAvatar,
			Initials: r.AuthorInitials,
			OwnerID:  r.OwnerID,
		},
		Date:     r.Date,
		Comments: make([]models.Comment, len(r.Comments)),
	}
	for i, c := range r.Comments {
		post.Comments[i] = models.Comment{ID: c.ID, Author: c.Author, Content: c.Content, Date: c.Date}
	}
	return post
}
