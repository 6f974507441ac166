package repository

import (
	"errors"
	"strings"
	"time"

	"github.com/inkpost/internal/models"

	"gorm.io/gorm"
)

// CommentRepository 评论数据访问接口
type CommentRepository interface {
	GetByID(id uint) (*models.Comment, error)
	Create(comment *models.Comment) error
	UpdateContent(comment *models.Comment) error
	MarkApproved(id uint) error
	DeleteTree(id uint) (int64, error)
	ListByPost(postID uint, onlyApproved bool) ([]models.Comment, error)
	ListPending() ([]models.Comment, error)
	List(filter CommentListFilter) ([]models.Comment, int64, error)
	BatchSetApproved(ids []uint, approved bool) (int64, error)
	ReplyCounts(ids []uint) (map[uint]int64, error)
}

// GormCommentRepository GORM 实现
type GormCommentRepository struct {
	db *gorm.DB
}

// NewCommentRepository 创建评论仓库
func NewCommentRepository(db *gorm.DB) *GormCommentRepository {
	return &GormCommentRepository{db: db}
}

// GetByID 根据 ID 获取评论
func (r *GormCommentRepository) GetByID(id uint) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.First(&comment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &comment, nil
}

// Create 创建评论
func (r *GormCommentRepository) Create(comment *models.Comment) error {
	return r.db.Omit("Post", "Author").Create(comment).Error
}

// UpdateContent 更新评论内容并刷新 updated_at，不触碰审核状态
func (r *GormCommentRepository) UpdateContent(comment *models.Comment) error {
	comment.UpdatedAt = time.Now()
	return r.db.Model(&models.Comment{}).Where("id = ?", comment.ID).Updates(map[string]interface{}{
		"content":    comment.Content,
		"updated_at": comment.UpdatedAt,
	}).Error
}

// MarkApproved 标记评论为已批准
func (r *GormCommentRepository) MarkApproved(id uint) error {
	return r.db.Model(&models.Comment{}).Where("id = ?", id).Updates(map[string]interface{}{
		"approved":   true,
		"updated_at": time.Now(),
	}).Error
}

// DeleteTree 删除评论及其全部回复，返回删除条数
func (r *GormCommentRepository) DeleteTree(id uint) (int64, error) {
	var deleted int64
	err := r.db.Transaction(func(tx *gorm.DB) error {
		n, err := deleteCommentTreesTx(tx, []uint{id})
		deleted = n
		return err
	})
	return deleted, err
}

// ListByPost 获取文章下的评论，按创建时间升序
func (r *GormCommentRepository) ListByPost(postID uint, onlyApproved bool) ([]models.Comment, error) {
	query := r.db.Preload("Author").Where("post_id = ?", postID)
	if onlyApproved {
		query = query.Where("approved = ?", true)
	}
	var comments []models.Comment
	if err := query.Order("created_at ASC, id ASC").Find(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}

// ListPending 获取全部待审核评论，最早提交的在前
func (r *GormCommentRepository) ListPending() ([]models.Comment, error) {
	var comments []models.Comment
	err := r.db.Preload("Author").Preload("Post").
		Where("approved = ?", false).
		Order("created_at ASC, id ASC").
		Find(&comments).Error
	if err != nil {
		return nil, err
	}
	return comments, nil
}

// List 管理端评论列表
func (r *GormCommentRepository) List(filter CommentListFilter) ([]models.Comment, int64, error) {
	query := r.db.Model(&models.Comment{})
	if filter.PostID != 0 {
		query = query.Where("post_id = ?", filter.PostID)
	}
	if filter.AuthorID != 0 {
		query = query.Where("author_id = ?", filter.AuthorID)
	}
	if filter.Approved != nil {
		query = query.Where("approved = ?", *filter.Approved)
	}
	if keyword := strings.TrimSpace(filter.Keyword); keyword != "" {
		like := containsPattern(keyword)
		contentCond, _ := buildContainsCondition(r.db, "content")
		usernameCond, _ := buildContainsCondition(r.db, "username")
		titleCond, _ := buildContainsCondition(r.db, "title")
		query = query.Where(
			r.db.Where(contentCond, like).
				Or("author_id IN (?)", r.db.Model(&models.User{}).Select("id").Where(usernameCond, like)).
				Or("post_id IN (?)", r.db.Model(&models.Post{}).Select("id").Where(titleCond, like)),
		)
	}

	return findPage[models.Comment](query, filter.Page, filter.PageSize, "created_at DESC, id DESC", "Author", "Post")
}

// BatchSetApproved 批量设置审核状态，返回受影响行数
func (r *GormCommentRepository) BatchSetApproved(ids []uint, approved bool) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result := r.db.Model(&models.Comment{}).
		Where("id IN ?", ids).
		Where("approved <> ?", approved).
		Updates(map[string]interface{}{
			"approved":   approved,
			"updated_at": time.Now(),
		})
	return result.RowsAffected, result.Error
}

// ReplyCounts 统计每条评论的直接回复数量
func (r *GormCommentRepository) ReplyCounts(ids []uint) (map[uint]int64, error) {
	counts := make(map[uint]int64, len(ids))
	if len(ids) == 0 {
		return counts, nil
	}
	var rows []struct {
		ParentID uint
		Total    int64
	}
	err := r.db.Model(&models.Comment{}).
		Select("parent_id, COUNT(*) AS total").
		Where("parent_id IN ?", ids).
		Group("parent_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		counts[row.ParentID] = row.Total
	}
	return counts, nil
}

type commentNode struct {
	ID       uint
	ParentID *uint
}

// deleteCommentTreesTx 删除给定评论及其所有后代
// 以 parent_id 建立 父 -> 子 索引后逐层展开，不依赖递归调用。
func deleteCommentTreesTx(tx *gorm.DB, rootIDs []uint) (int64, error) {
	if len(rootIDs) == 0 {
		return 0, nil
	}
	var postIDs []uint
	if err := tx.Model(&models.Comment{}).Where("id IN ?", rootIDs).Distinct().Pluck("post_id", &postIDs).Error; err != nil {
		return 0, err
	}
	if len(postIDs) == 0 {
		return 0, nil
	}

	var nodes []commentNode
	if err := tx.Model(&models.Comment{}).Select("id", "parent_id").Where("post_id IN ?", postIDs).Find(&nodes).Error; err != nil {
		return 0, err
	}
	ids := collectSubtreeIDs(nodes, rootIDs)
	if len(ids) == 0 {
		return 0, nil
	}
	result := tx.Where("id IN ?", ids).Delete(&models.Comment{})
	return result.RowsAffected, result.Error
}

// collectSubtreeIDs 返回根节点及其全部后代的 ID（广度优先）
func collectSubtreeIDs(nodes []commentNode, rootIDs []uint) []uint {
	known := make(map[uint]struct{}, len(nodes))
	children := make(map[uint][]uint, len(nodes))
	for _, node := range nodes {
		known[node.ID] = struct{}{}
		if node.ParentID != nil {
			children[*node.ParentID] = append(children[*node.ParentID], node.ID)
		}
	}

	visited := make(map[uint]struct{}, len(nodes))
	queue := make([]uint, 0, len(rootIDs))
	for _, id := range rootIDs {
		if _, ok := known[id]; ok {
			queue = append(queue, id)
		}
	}
	result := make([]uint, 0, len(queue))
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		if _, seen := visited[id]; seen {
			continue
		}
		visited[id] = struct{}{}
		result = append(result, id)
		queue = append(queue, children[id]...)
	}
	return result
}
