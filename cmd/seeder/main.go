package main

import (
	"encoding/json"
	"fmt"
	"log"
	"math/rand"

	"clipnest/internal/config"
	"clipnest/internal/model"

	"github.com/go-faker/faker/v4"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var categoryNames = []string{"科技", "音乐", "游戏", "教育", "生活", "影视", "体育", "美食"}

func main() {
	fmt.Println("开始填充测试数据...")

	if err := config.Load(); err != nil {
		log.Fatalf(".env文件加载失败: %v", err)
	}
	db, err := gorm.Open(mysql.Open(config.MySQLDSN()), &gorm.Config{})
	if err != nil {
		log.Fatalf("无法连接到数据库: %v", err)
	}
	fmt.Println("数据库连接成功")

	// 先删表重建，保证每轮填充都是干净的
	db.Migrator().DropTable(
		&model.Report{}, &model.Subscription{}, &model.WatchLater{},
		&model.PlaylistVideo{}, &model.Playlist{},
		&model.VideoUserRating{}, &model.Rating{},
		&model.CommentLike{}, &model.Comment{},
		&model.Video{}, &model.Category{}, &model.User{},
	)
	if err := db.AutoMigrate(
		&model.User{}, &model.Category{}, &model.Video{},
		&model.Comment{}, &model.CommentLike{},
		&model.Rating{}, &model.VideoUserRating{},
		&model.Playlist{}, &model.PlaylistVideo{},
		&model.WatchLater{}, &model.Subscription{}, &model.Report{},
	); err != nil {
		log.Fatalf("数据库迁移失败: %v", err)
	}
	fmt.Println("数据库迁移成功")

	// 所有账号统一用密码 "password"
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("密码加密失败: %v", err)
	}

	fmt.Println("正在创建用户...")
	admin := model.User{
		Username: "admin",
		Email:    "admin@clipnest.local",
		Password: string(hashedPassword),
		Role:     model.RoleAdmin,
		IsActive: true,
	}
	db.Create(&admin)

	users := make([]model.User, 0, 50)
	for i := 0; i < 50; i++ {
		role := model.RoleRegisteredUser
		if i%5 == 0 {
			role = model.RoleContentCreator
		}
		user := model.User{
			Username:  faker.Username(),
			Email:     faker.Email(),
			Password:  string(hashedPassword),
			Role:      role,
			IsActive:  true,
			FirstName: faker.FirstName(),
			LastName:  faker.LastName(),
			Bio:       faker.Sentence(),
		}
		// 用户名撞了就跳过
		db.Clauses(clause.OnConflict{DoNothing: true}).Create(&user)
		if user.ID != 0 {
			users = append(users, user)
		}
	}
	fmt.Printf("创建了%d个用户\n", len(users)+1)

	fmt.Println("正在创建分类...")
	categories := make([]model.Category, 0, len(categoryNames))
	for _, name := range categoryNames {
		category := model.Category{Name: name, Description: faker.Sentence()}
		db.Clauses(clause.OnConflict{DoNothing: true}).Create(&category)
		if category.ID != 0 {
			categories = append(categories, category)
		}
	}

	fmt.Println("正在创建视频...")
	videos := make([]model.Video, 0, 200)
	for i := 0; i < 200; i++ {
		uploader := users[rand.Intn(len(users))]
		category := categories[rand.Intn(len(categories))]
		tags, _ := json.Marshal([]string{faker.Word(), faker.Word()})

		privacy := model.PrivacyPublic
		if rand.Intn(10) == 0 {
			privacy = model.PrivacyPrivate
		}
		video := model.Video{
			UploaderID:    uploader.ID,
			Title:         faker.Sentence(),
			Description:   faker.Paragraph(),
			FilePath:      fmt.Sprintf("/uploads/videos/seed_%d.mp4", i),
			ThumbnailPath: fmt.Sprintf("/uploads/thumbnails/seed_%d.jpg", i),
			Duration:      uint(rand.Intn(3600) + 30),
			FileSize:      uint64(rand.Intn(500_000_000) + 1_000_000),
			CategoryID:    &category.ID,
			Privacy:       privacy,
			Status:        model.StatusPublished,
			ViewCount:     uint64(rand.Intn(100000)),
			Tags:          string(tags),
		}
		db.Create(&video)
		videos = append(videos, video)
	}
	fmt.Printf("创建了%d个视频\n", len(videos))

	fmt.Println("正在创建评论和评分...")
	for i := 0; i < 500; i++ {
		video := videos[rand.Intn(len(videos))]
		user := users[rand.Intn(len(users))]
		comment := model.Comment{
			VideoID: video.ID,
			UserID:  user.ID,
			Content: faker.Sentence(),
		}
		db.Create(&comment)
	}
	for i := 0; i < 800; i++ {
		video := videos[rand.Intn(len(videos))]
		user := users[rand.Intn(len(users))]
		ratingType := model.RatingLike
		if rand.Intn(5) == 0 {
			ratingType = model.RatingDislike
		}
		rating := model.Rating{VideoID: video.ID, UserID: user.ID, Type: ratingType}
		// (video,user)唯一，撞了就跳过
		db.Clauses(clause.OnConflict{DoNothing: true}).Create(&rating)
	}
	// 回填视频表上的冗余计数
	db.Exec(`UPDATE videos v SET
		like_count = (SELECT COUNT(*) FROM ratings r WHERE r.video_id = v.id AND r.rating_type = 'LIKE' AND r.deleted_at IS NULL),
		dislike_count = (SELECT COUNT(*) FROM ratings r WHERE r.video_id = v.id AND r.rating_type = 'DISLIKE' AND r.deleted_at IS NULL)`)

	fmt.Println("正在创建订阅关系...")
	for i := 0; i < 300; i++ {
		subscriber := users[rand.Intn(len(users))]
		creator := users[rand.Intn(len(users))]
		if subscriber.ID == creator.ID {
			continue
		}
		sub := model.Subscription{SubscriberID: subscriber.ID, CreatorID: creator.ID}
		db.Clauses(clause.OnConflict{DoNothing: true}).Create(&sub)
	}

	fmt.Println("测试数据填充完成! 管理员账号: admin / password")
}
