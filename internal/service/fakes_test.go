package service

import (
	"io"
	"os"
	"sort"
	"strings"
	"testing"

	"clipnest/internal/data"
	"clipnest/internal/model"
	"clipnest/internal/repository"
	"clipnest/pkg/logger"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

func TestMain(m *testing.M) {
	logger.Log = logrus.New()
	logger.Log.SetOutput(io.Discard)
	os.Exit(m.Run())
}

// 内存版Repository实现，行为对齐真实实现的约定：
// 找不到记录时返回gorm.ErrRecordNotFound，"可能不存在"的查询返回(nil, nil)

type fakeUserRepo struct {
	users  map[uint64]*model.User
	nextID uint64
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[uint64]*model.User{}, nextID: 1}
}

func (r *fakeUserRepo) Create(user *model.User) error {
	user.ID = r.nextID
	r.nextID++
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *fakeUserRepo) Save(user *model.User) error {
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *fakeUserRepo) FindByID(userID uint64) (*model.User, error) {
	user, ok := r.users[userID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *user
	return &clone, nil
}

func (r *fakeUserRepo) FindByUsername(username string) (*model.User, error) {
	for _, user := range r.users {
		if user.Username == username {
			clone := *user
			return &clone, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) FindByEmail(email string) (*model.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) FindByUsernameOrEmail(login string) (*model.User, error) {
	for _, user := range r.users {
		if user.Username == login || user.Email == login {
			clone := *user
			return &clone, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) FindAll() ([]model.User, error) {
	var users []model.User
	for _, user := range r.users {
		users = append(users, *user)
	}
	return users, nil
}

func (r *fakeUserRepo) FindActive() ([]model.User, error) {
	var users []model.User
	for _, user := range r.users {
		if user.IsActive {
			users = append(users, *user)
		}
	}
	return users, nil
}

func (r *fakeUserRepo) Search(keyword string) ([]model.User, error) {
	var users []model.User
	for _, user := range r.users {
		if strings.Contains(user.Username, keyword) {
			users = append(users, *user)
		}
	}
	return users, nil
}

func (r *fakeUserRepo) CountByRole(role string) (int64, error) {
	var count int64
	for _, user := range r.users {
		if user.Role == role {
			count++
		}
	}
	return count, nil
}

func (r *fakeUserRepo) Delete(userID uint64) error {
	delete(r.users, userID)
	return nil
}

func (r *fakeUserRepo) WithTx(tx *gorm.DB) repository.UserRepository { return r }

type fakeVideoRepo struct {
	videos      map[uint64]*model.Video
	nextID      uint64
	invalidated []uint64
}

func newFakeVideoRepo() *fakeVideoRepo {
	return &fakeVideoRepo{videos: map[uint64]*model.Video{}, nextID: 1}
}

func (r *fakeVideoRepo) Create(video *model.Video) error {
	video.ID = r.nextID
	r.nextID++
	clone := *video
	r.videos[video.ID] = &clone
	return nil
}

func (r *fakeVideoRepo) Save(video *model.Video) error {
	clone := *video
	r.videos[video.ID] = &clone
	return nil
}

func (r *fakeVideoRepo) Delete(videoID uint64) error {
	delete(r.videos, videoID)
	return nil
}

func (r *fakeVideoRepo) FindByID(videoID uint64) (*model.Video, error) {
	video, ok := r.videos[videoID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *video
	return &clone, nil
}

func (r *fakeVideoRepo) IncrementViewCount(videoID uint64) error {
	if video, ok := r.videos[videoID]; ok {
		video.ViewCount++
	}
	return nil
}

func (r *fakeVideoRepo) UpdateRatingCounts(videoID, likeCount, dislikeCount uint64) error {
	if video, ok := r.videos[videoID]; ok {
		video.LikeCount = likeCount
		video.DislikeCount = dislikeCount
	}
	return nil
}

func (r *fakeVideoRepo) sorted(filter func(*model.Video) bool) []model.Video {
	var ids []uint64
	for id := range r.videos {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	var videos []model.Video
	for _, id := range ids {
		if filter(r.videos[id]) {
			videos = append(videos, *r.videos[id])
		}
	}
	return videos
}

func isPublic(v *model.Video) bool {
	return v.Privacy == model.PrivacyPublic && v.Status == model.StatusPublished
}

func (r *fakeVideoRepo) FindPublic() ([]model.Video, error) {
	return r.sorted(isPublic), nil
}

func (r *fakeVideoRepo) FindLatest(limit int) ([]model.Video, error) {
	videos := r.sorted(isPublic)
	if len(videos) > limit {
		videos = videos[:limit]
	}
	return videos, nil
}

func (r *fakeVideoRepo) FindTopRated(limit int) ([]model.Video, error) {
	return r.FindLatest(limit)
}

func (r *fakeVideoRepo) FindByCategory(categoryID uint64) ([]model.Video, error) {
	return r.sorted(func(v *model.Video) bool {
		return isPublic(v) && v.CategoryID != nil && *v.CategoryID == categoryID
	}), nil
}

func (r *fakeVideoRepo) FindByUploader(uploaderID uint64, publicOnly bool) ([]model.Video, error) {
	return r.sorted(func(v *model.Video) bool {
		if v.UploaderID != uploaderID {
			return false
		}
		return !publicOnly || isPublic(v)
	}), nil
}

func (r *fakeVideoRepo) Search(keyword string, categoryID uint64) ([]model.Video, error) {
	return r.sorted(func(v *model.Video) bool {
		if !isPublic(v) {
			return false
		}
		if categoryID != 0 && (v.CategoryID == nil || *v.CategoryID != categoryID) {
			return false
		}
		return keyword == "" || strings.Contains(v.Title, keyword) || strings.Contains(v.Description, keyword)
	}), nil
}

func (r *fakeVideoRepo) FindRelated(categoryID *uint64, excludeID uint64, limit int) ([]model.Video, error) {
	videos := r.sorted(func(v *model.Video) bool {
		if !isPublic(v) || v.ID == excludeID {
			return false
		}
		return categoryID == nil || (v.CategoryID != nil && *v.CategoryID == *categoryID)
	})
	if len(videos) > limit {
		videos = videos[:limit]
	}
	return videos, nil
}

func (r *fakeVideoRepo) CountByStatus(status string) (int64, error) {
	var count int64
	for _, v := range r.videos {
		if v.Status == status {
			count++
		}
	}
	return count, nil
}

func (r *fakeVideoRepo) GetVideoCache(videoID uint64) (*model.Video, error) { return nil, nil }
func (r *fakeVideoRepo) SetVideoCache(video *model.Video) error             { return nil }

func (r *fakeVideoRepo) InvalidateVideoCache(videoID uint64) error {
	r.invalidated = append(r.invalidated, videoID)
	return nil
}

func (r *fakeVideoRepo) WithTx(tx *gorm.DB) repository.VideoRepository { return r }

type fakeCommentRepo struct {
	comments map[uint64]*model.Comment
	likes    map[uint64]map[uint64]bool // commentID -> userID集合
	nextID   uint64
}

func newFakeCommentRepo() *fakeCommentRepo {
	return &fakeCommentRepo{
		comments: map[uint64]*model.Comment{},
		likes:    map[uint64]map[uint64]bool{},
		nextID:   1,
	}
}

func (r *fakeCommentRepo) Create(comment *model.Comment) error {
	comment.ID = r.nextID
	r.nextID++
	clone := *comment
	r.comments[comment.ID] = &clone
	return nil
}

func (r *fakeCommentRepo) Save(comment *model.Comment) error {
	clone := *comment
	r.comments[comment.ID] = &clone
	return nil
}

func (r *fakeCommentRepo) FindByID(commentID uint64) (*model.Comment, error) {
	comment, ok := r.comments[commentID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *comment
	return &clone, nil
}

func (r *fakeCommentRepo) Delete(commentIDs []uint64) error {
	for _, id := range commentIDs {
		delete(r.comments, id)
	}
	return nil
}

func (r *fakeCommentRepo) DeleteByVideoID(videoID uint64) error {
	for id, comment := range r.comments {
		if comment.VideoID == videoID {
			delete(r.comments, id)
		}
	}
	return nil
}

func (r *fakeCommentRepo) sortedIDs() []uint64 {
	var ids []uint64
	for id := range r.comments {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (r *fakeCommentRepo) FindRootsByVideo(videoID uint64, offset, limit int) ([]model.Comment, error) {
	var roots []model.Comment
	for _, id := range r.sortedIDs() {
		c := r.comments[id]
		if c.VideoID == videoID && c.ParentID == nil && !c.Disabled {
			roots = append(roots, *c)
		}
	}
	// 置顶优先
	sort.SliceStable(roots, func(i, j int) bool { return roots[i].Pinned && !roots[j].Pinned })
	if offset >= len(roots) {
		return nil, nil
	}
	roots = roots[offset:]
	if len(roots) > limit {
		roots = roots[:limit]
	}
	return roots, nil
}

func (r *fakeCommentRepo) FindRepliesByParentIDs(parentIDs []uint64) ([]model.Comment, error) {
	parents := map[uint64]bool{}
	for _, id := range parentIDs {
		parents[id] = true
	}
	var replies []model.Comment
	for _, id := range r.sortedIDs() {
		c := r.comments[id]
		if c.ParentID != nil && parents[*c.ParentID] && !c.Disabled {
			replies = append(replies, *c)
		}
	}
	return replies, nil
}

func (r *fakeCommentRepo) FindReplyIDsByParentIDs(parentIDs []uint64) ([]uint64, error) {
	parents := map[uint64]bool{}
	for _, id := range parentIDs {
		parents[id] = true
	}
	var ids []uint64
	for _, id := range r.sortedIDs() {
		c := r.comments[id]
		if c.ParentID != nil && parents[*c.ParentID] {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (r *fakeCommentRepo) FindIDsByVideo(videoID uint64) ([]uint64, error) {
	var ids []uint64
	for _, id := range r.sortedIDs() {
		if r.comments[id].VideoID == videoID {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (r *fakeCommentRepo) FindIDsByUser(userID uint64) ([]uint64, error) {
	var ids []uint64
	for _, id := range r.sortedIDs() {
		if r.comments[id].UserID == userID {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (r *fakeCommentRepo) CountLikesByCommentIDs(commentIDs []uint64) (map[uint64]int64, error) {
	counts := map[uint64]int64{}
	for _, id := range commentIDs {
		if users, ok := r.likes[id]; ok && len(users) > 0 {
			counts[id] = int64(len(users))
		}
	}
	return counts, nil
}

func (r *fakeCommentRepo) FindLikedCommentIDs(userID uint64, commentIDs []uint64) ([]uint64, error) {
	var ids []uint64
	for _, id := range commentIDs {
		if r.likes[id][userID] {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (r *fakeCommentRepo) CreateLike(like *model.CommentLike) error {
	if r.likes[like.CommentID] == nil {
		r.likes[like.CommentID] = map[uint64]bool{}
	}
	r.likes[like.CommentID][like.UserID] = true
	return nil
}

func (r *fakeCommentRepo) DeleteLike(commentID, userID uint64) error {
	delete(r.likes[commentID], userID)
	return nil
}

func (r *fakeCommentRepo) LikeExists(commentID, userID uint64) (bool, error) {
	return r.likes[commentID][userID], nil
}

func (r *fakeCommentRepo) DeleteLikesByCommentIDs(commentIDs []uint64) error {
	for _, id := range commentIDs {
		delete(r.likes, id)
	}
	return nil
}

func (r *fakeCommentRepo) DeleteLikesByUserID(userID uint64) error {
	for _, users := range r.likes {
		delete(users, userID)
	}
	return nil
}

func (r *fakeCommentRepo) WithTx(tx *gorm.DB) repository.CommentRepository { return r }

type fakeRatingRepo struct {
	ratings map[uint64]*model.Rating
	stars   map[[2]uint64]uint8 // (videoID,userID) -> score
	nextID  uint64
}

func newFakeRatingRepo() *fakeRatingRepo {
	return &fakeRatingRepo{
		ratings: map[uint64]*model.Rating{},
		stars:   map[[2]uint64]uint8{},
		nextID:  1,
	}
}

func (r *fakeRatingRepo) FindByVideoAndUser(videoID, userID uint64) (*model.Rating, error) {
	for _, rating := range r.ratings {
		if rating.VideoID == videoID && rating.UserID == userID {
			clone := *rating
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *fakeRatingRepo) Create(rating *model.Rating) error {
	rating.ID = r.nextID
	r.nextID++
	clone := *rating
	r.ratings[rating.ID] = &clone
	return nil
}

func (r *fakeRatingRepo) UpdateType(ratingID uint64, ratingType string) error {
	if rating, ok := r.ratings[ratingID]; ok {
		rating.Type = ratingType
	}
	return nil
}

func (r *fakeRatingRepo) Delete(ratingID uint64) error {
	delete(r.ratings, ratingID)
	return nil
}

func (r *fakeRatingRepo) CountByType(videoID uint64, ratingType string) (int64, error) {
	var count int64
	for _, rating := range r.ratings {
		if rating.VideoID == videoID && rating.Type == ratingType {
			count++
		}
	}
	return count, nil
}

func (r *fakeRatingRepo) DeleteByVideoID(videoID uint64) error {
	for id, rating := range r.ratings {
		if rating.VideoID == videoID {
			delete(r.ratings, id)
		}
	}
	return nil
}

func (r *fakeRatingRepo) FindVideoIDsByUser(userID uint64) ([]uint64, error) {
	var ids []uint64
	for _, rating := range r.ratings {
		if rating.UserID == userID {
			ids = append(ids, rating.VideoID)
		}
	}
	return ids, nil
}

func (r *fakeRatingRepo) DeleteByUserID(userID uint64) error {
	for id, rating := range r.ratings {
		if rating.UserID == userID {
			delete(r.ratings, id)
		}
	}
	return nil
}

func (r *fakeRatingRepo) UpsertStar(videoID, userID uint64, score uint8) error {
	r.stars[[2]uint64{videoID, userID}] = score
	return nil
}

func (r *fakeRatingRepo) StarSummary(videoID uint64) (float64, int64, error) {
	var sum, count int64
	for key, score := range r.stars {
		if key[0] == videoID {
			sum += int64(score)
			count++
		}
	}
	if count == 0 {
		return 0, 0, nil
	}
	return float64(sum) / float64(count), count, nil
}

func (r *fakeRatingRepo) FindStarByVideoAndUser(videoID, userID uint64) (*model.VideoUserRating, error) {
	score, ok := r.stars[[2]uint64{videoID, userID}]
	if !ok {
		return nil, nil
	}
	return &model.VideoUserRating{VideoID: videoID, UserID: userID, Score: score}, nil
}

func (r *fakeRatingRepo) DeleteStarsByVideoID(videoID uint64) error {
	for key := range r.stars {
		if key[0] == videoID {
			delete(r.stars, key)
		}
	}
	return nil
}

func (r *fakeRatingRepo) DeleteStarsByUserID(userID uint64) error {
	for key := range r.stars {
		if key[1] == userID {
			delete(r.stars, key)
		}
	}
	return nil
}

func (r *fakeRatingRepo) WithTx(tx *gorm.DB) repository.RatingRepository { return r }

type fakePlaylistRepo struct {
	playlists map[uint64]*model.Playlist
	entries   map[uint64]*model.PlaylistVideo
	nextID    uint64
}

func newFakePlaylistRepo() *fakePlaylistRepo {
	return &fakePlaylistRepo{
		playlists: map[uint64]*model.Playlist{},
		entries:   map[uint64]*model.PlaylistVideo{},
		nextID:    1,
	}
}

func (r *fakePlaylistRepo) Create(playlist *model.Playlist) error {
	playlist.ID = r.nextID
	r.nextID++
	clone := *playlist
	r.playlists[playlist.ID] = &clone
	return nil
}

func (r *fakePlaylistRepo) Save(playlist *model.Playlist) error {
	clone := *playlist
	r.playlists[playlist.ID] = &clone
	return nil
}

func (r *fakePlaylistRepo) FindByID(playlistID uint64) (*model.Playlist, error) {
	playlist, ok := r.playlists[playlistID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *playlist
	return &clone, nil
}

func (r *fakePlaylistRepo) FindByUser(userID uint64) ([]model.Playlist, error) {
	var playlists []model.Playlist
	for _, playlist := range r.playlists {
		if playlist.UserID == userID {
			playlists = append(playlists, *playlist)
		}
	}
	return playlists, nil
}

func (r *fakePlaylistRepo) FindPublic() ([]model.Playlist, error) {
	var playlists []model.Playlist
	for _, playlist := range r.playlists {
		if playlist.Privacy == model.PrivacyPublic {
			playlists = append(playlists, *playlist)
		}
	}
	return playlists, nil
}

func (r *fakePlaylistRepo) SearchPublic(keyword string) ([]model.Playlist, error) {
	var playlists []model.Playlist
	for _, playlist := range r.playlists {
		if playlist.Privacy == model.PrivacyPublic && strings.Contains(playlist.Name, keyword) {
			playlists = append(playlists, *playlist)
		}
	}
	return playlists, nil
}

func (r *fakePlaylistRepo) Delete(playlistID uint64) error {
	delete(r.playlists, playlistID)
	return nil
}

func (r *fakePlaylistRepo) FindEntry(playlistID, videoID uint64) (*model.PlaylistVideo, error) {
	for _, entry := range r.entries {
		if entry.PlaylistID == playlistID && entry.VideoID == videoID {
			clone := *entry
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *fakePlaylistRepo) FindEntries(playlistID uint64) ([]model.PlaylistVideo, error) {
	var entries []model.PlaylistVideo
	for _, entry := range r.entries {
		if entry.PlaylistID == playlistID {
			entries = append(entries, *entry)
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Position < entries[j].Position })
	return entries, nil
}

func (r *fakePlaylistRepo) MaxPosition(playlistID uint64) (int, error) {
	max := 0
	for _, entry := range r.entries {
		if entry.PlaylistID == playlistID && entry.Position > max {
			max = entry.Position
		}
	}
	return max, nil
}

func (r *fakePlaylistRepo) CreateEntry(entry *model.PlaylistVideo) error {
	entry.ID = r.nextID
	r.nextID++
	clone := *entry
	r.entries[entry.ID] = &clone
	return nil
}

func (r *fakePlaylistRepo) UpdatePosition(entryID uint64, position int) error {
	if entry, ok := r.entries[entryID]; ok {
		entry.Position = position
	}
	return nil
}

func (r *fakePlaylistRepo) DeleteEntry(playlistID, videoID uint64) error {
	for id, entry := range r.entries {
		if entry.PlaylistID == playlistID && entry.VideoID == videoID {
			delete(r.entries, id)
		}
	}
	return nil
}

func (r *fakePlaylistRepo) DeleteEntriesByPlaylist(playlistID uint64) error {
	for id, entry := range r.entries {
		if entry.PlaylistID == playlistID {
			delete(r.entries, id)
		}
	}
	return nil
}

func (r *fakePlaylistRepo) FindPlaylistIDsByVideo(videoID uint64) ([]uint64, error) {
	seen := map[uint64]bool{}
	var ids []uint64
	for _, entry := range r.entries {
		if entry.VideoID == videoID && !seen[entry.PlaylistID] {
			seen[entry.PlaylistID] = true
			ids = append(ids, entry.PlaylistID)
		}
	}
	return ids, nil
}

func (r *fakePlaylistRepo) DeleteEntriesByVideo(videoID uint64) error {
	for id, entry := range r.entries {
		if entry.VideoID == videoID {
			delete(r.entries, id)
		}
	}
	return nil
}

func (r *fakePlaylistRepo) WithTx(tx *gorm.DB) repository.PlaylistRepository { return r }

type fakeWatchLaterRepo struct {
	entries map[[2]uint64]*model.WatchLater // (userID,videoID)
	nextID  uint64
}

func newFakeWatchLaterRepo() *fakeWatchLaterRepo {
	return &fakeWatchLaterRepo{entries: map[[2]uint64]*model.WatchLater{}, nextID: 1}
}

func (r *fakeWatchLaterRepo) Create(entry *model.WatchLater) error {
	entry.ID = r.nextID
	r.nextID++
	clone := *entry
	r.entries[[2]uint64{entry.UserID, entry.VideoID}] = &clone
	return nil
}

func (r *fakeWatchLaterRepo) Exists(userID, videoID uint64) (bool, error) {
	_, ok := r.entries[[2]uint64{userID, videoID}]
	return ok, nil
}

func (r *fakeWatchLaterRepo) Delete(userID, videoID uint64) error {
	delete(r.entries, [2]uint64{userID, videoID})
	return nil
}

func (r *fakeWatchLaterRepo) FindByUser(userID uint64) ([]model.WatchLater, error) {
	var entries []model.WatchLater
	for key, entry := range r.entries {
		if key[0] == userID {
			entries = append(entries, *entry)
		}
	}
	return entries, nil
}

func (r *fakeWatchLaterRepo) Clear(userID uint64) error {
	for key := range r.entries {
		if key[0] == userID {
			delete(r.entries, key)
		}
	}
	return nil
}

func (r *fakeWatchLaterRepo) DeleteByVideoID(videoID uint64) error {
	for key := range r.entries {
		if key[1] == videoID {
			delete(r.entries, key)
		}
	}
	return nil
}

func (r *fakeWatchLaterRepo) WithTx(tx *gorm.DB) repository.WatchLaterRepository { return r }

type fakeSubscriptionRepo struct {
	subs   map[[2]uint64]*model.Subscription // (subscriberID,creatorID)
	nextID uint64
}

func newFakeSubscriptionRepo() *fakeSubscriptionRepo {
	return &fakeSubscriptionRepo{subs: map[[2]uint64]*model.Subscription{}, nextID: 1}
}

func (r *fakeSubscriptionRepo) Exists(subscriberID, creatorID uint64) (bool, error) {
	_, ok := r.subs[[2]uint64{subscriberID, creatorID}]
	return ok, nil
}

func (r *fakeSubscriptionRepo) Create(sub *model.Subscription) error {
	sub.ID = r.nextID
	r.nextID++
	clone := *sub
	r.subs[[2]uint64{sub.SubscriberID, sub.CreatorID}] = &clone
	return nil
}

func (r *fakeSubscriptionRepo) Delete(subscriberID, creatorID uint64) error {
	delete(r.subs, [2]uint64{subscriberID, creatorID})
	return nil
}

func (r *fakeSubscriptionRepo) CountByCreator(creatorID uint64) (int64, error) {
	var count int64
	for key := range r.subs {
		if key[1] == creatorID {
			count++
		}
	}
	return count, nil
}

func (r *fakeSubscriptionRepo) CountBySubscriber(subscriberID uint64) (int64, error) {
	var count int64
	for key := range r.subs {
		if key[0] == subscriberID {
			count++
		}
	}
	return count, nil
}

func (r *fakeSubscriptionRepo) FindBySubscriber(subscriberID uint64) ([]model.Subscription, error) {
	var subs []model.Subscription
	for key, sub := range r.subs {
		if key[0] == subscriberID {
			subs = append(subs, *sub)
		}
	}
	return subs, nil
}

func (r *fakeSubscriptionRepo) DeleteByUser(userID uint64) error {
	for key := range r.subs {
		if key[0] == userID || key[1] == userID {
			delete(r.subs, key)
		}
	}
	return nil
}

func (r *fakeSubscriptionRepo) WithTx(tx *gorm.DB) repository.SubscriptionRepository { return r }

type fakeCategoryRepo struct {
	categories map[uint64]*model.Category
	nextID     uint64
}

func newFakeCategoryRepo() *fakeCategoryRepo {
	return &fakeCategoryRepo{categories: map[uint64]*model.Category{}, nextID: 1}
}

func (r *fakeCategoryRepo) Create(category *model.Category) error {
	category.ID = r.nextID
	r.nextID++
	clone := *category
	r.categories[category.ID] = &clone
	return nil
}

func (r *fakeCategoryRepo) Save(category *model.Category) error {
	clone := *category
	r.categories[category.ID] = &clone
	return nil
}

func (r *fakeCategoryRepo) FindByID(categoryID uint64) (*model.Category, error) {
	category, ok := r.categories[categoryID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *category
	return &clone, nil
}

func (r *fakeCategoryRepo) ExistsByName(name string) (bool, error) {
	for _, category := range r.categories {
		if category.Name == name {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeCategoryRepo) FindAll() ([]model.Category, error) {
	var categories []model.Category
	for _, category := range r.categories {
		categories = append(categories, *category)
	}
	return categories, nil
}

func (r *fakeCategoryRepo) Search(keyword string) ([]model.Category, error) {
	var categories []model.Category
	for _, category := range r.categories {
		if strings.Contains(category.Name, keyword) {
			categories = append(categories, *category)
		}
	}
	return categories, nil
}

func (r *fakeCategoryRepo) Delete(categoryID uint64) error {
	delete(r.categories, categoryID)
	return nil
}

func (r *fakeCategoryRepo) WithTx(tx *gorm.DB) repository.CategoryRepository { return r }

type fakeReportRepo struct {
	reports map[uint64]*model.Report
	nextID  uint64
}

func newFakeReportRepo() *fakeReportRepo {
	return &fakeReportRepo{reports: map[uint64]*model.Report{}, nextID: 1}
}

func (r *fakeReportRepo) Create(report *model.Report) error {
	report.ID = r.nextID
	r.nextID++
	clone := *report
	r.reports[report.ID] = &clone
	return nil
}

func (r *fakeReportRepo) Save(report *model.Report) error {
	clone := *report
	r.reports[report.ID] = &clone
	return nil
}

func (r *fakeReportRepo) FindByID(reportID uint64) (*model.Report, error) {
	report, ok := r.reports[reportID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *report
	return &clone, nil
}

func (r *fakeReportRepo) all(filter func(*model.Report) bool) []model.Report {
	var ids []uint64
	for id := range r.reports {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	var reports []model.Report
	for _, id := range ids {
		if filter(r.reports[id]) {
			reports = append(reports, *r.reports[id])
		}
	}
	return reports
}

func (r *fakeReportRepo) FindAll() ([]model.Report, error) {
	return r.all(func(*model.Report) bool { return true }), nil
}

func (r *fakeReportRepo) FindByStatus(status string) ([]model.Report, error) {
	return r.all(func(report *model.Report) bool { return report.Status == status }), nil
}

func (r *fakeReportRepo) FindByType(reportType string) ([]model.Report, error) {
	return r.all(func(report *model.Report) bool { return report.ReportType == reportType }), nil
}

func (r *fakeReportRepo) FindByReporter(userID uint64) ([]model.Report, error) {
	return r.all(func(report *model.Report) bool {
		return report.ReportedByID != nil && *report.ReportedByID == userID
	}), nil
}

func (r *fakeReportRepo) FindByVideo(videoID uint64) ([]model.Report, error) {
	return r.all(func(report *model.Report) bool {
		return report.VideoID != nil && *report.VideoID == videoID
	}), nil
}

func (r *fakeReportRepo) CountByStatus(status string) (int64, error) {
	var count int64
	for _, report := range r.reports {
		if status == "" || report.Status == status {
			count++
		}
	}
	return count, nil
}

func (r *fakeReportRepo) WithTx(tx *gorm.DB) repository.ReportRepository { return r }

// fakeUnitOfWork 直接用非事务的fake repos执行回调，失败时也不回滚，
// 测试只验证业务结果，不验证事务性
type fakeUnitOfWork struct {
	repos *data.TransactionalRepositories
}

func (u *fakeUnitOfWork) Execute(fn func(repos *data.TransactionalRepositories) error) error {
	return fn(u.repos)
}

// stubPublisher 收集发布的通知
type stubPublisher struct {
	notices []MailNotice
	err     error
}

func (p *stubPublisher) PublishMailNotice(notice MailNotice) error {
	if p.err != nil {
		return p.err
	}
	p.notices = append(p.notices, notice)
	return nil
}

// testEnv 聚合一套互相连通的fake repos，测试按需取用
type testEnv struct {
	users      *fakeUserRepo
	videos     *fakeVideoRepo
	comments   *fakeCommentRepo
	ratings    *fakeRatingRepo
	playlists  *fakePlaylistRepo
	watchLater *fakeWatchLaterRepo
	subs       *fakeSubscriptionRepo
	categories *fakeCategoryRepo
	reports    *fakeReportRepo
	uow        *fakeUnitOfWork
}

func newTestEnv() *testEnv {
	env := &testEnv{
		users:      newFakeUserRepo(),
		videos:     newFakeVideoRepo(),
		comments:   newFakeCommentRepo(),
		ratings:    newFakeRatingRepo(),
		playlists:  newFakePlaylistRepo(),
		watchLater: newFakeWatchLaterRepo(),
		subs:       newFakeSubscriptionRepo(),
		categories: newFakeCategoryRepo(),
		reports:    newFakeReportRepo(),
	}
	env.uow = &fakeUnitOfWork{repos: &data.TransactionalRepositories{
		UserRepo:         env.users,
		VideoRepo:        env.videos,
		CommentRepo:      env.comments,
		RatingRepo:       env.ratings,
		PlaylistRepo:     env.playlists,
		WatchLaterRepo:   env.watchLater,
		SubscriptionRepo: env.subs,
	}}
	return env
}

func (env *testEnv) addUser(username string, role string, active bool) *model.User {
	user := &model.User{
		Username: username,
		Email:    username + "@example.com",
		Password: "x",
		Role:     role,
		IsActive: active,
	}
	_ = env.users.Create(user)
	return user
}

func (env *testEnv) addVideo(uploaderID uint64, title, privacy, status string) *model.Video {
	video := &model.Video{
		Title:      title,
		UploaderID: uploaderID,
		Privacy:    privacy,
		Status:     status,
	}
	_ = env.videos.Create(video)
	return video
}
