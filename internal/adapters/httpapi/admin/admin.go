// Package admin exposes registered models over generic list / retrieve /
// create / update / delete endpoints.
package admin

import (
	"fmt"
	"net/http"
	"reflect"
	"sort"
	"strconv"

	dbadapter "travelhub/internal/adapters/database"
	"travelhub/internal/adapters/httpapi/respond"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/schema"
)

const (
	defaultLimit = 20
	maxLimit     = 100
)

// Site is one admin mount point.
type Site struct {
	DB     *gorm.DB
	Group  *gin.RouterGroup
	Logger *zap.Logger
	models map[string]string // path name -> table
}

func NewSite(db *gorm.DB, group *gin.RouterGroup, logger *zap.Logger) *Site {
	s := &Site{DB: db, Group: group, Logger: logger, models: map[string]string{}}
	group.GET("/", s.index)
	return s
}

// Models lists the registered path names, sorted.
func (s *Site) Models() []string {
	names := make([]string, 0, len(s.models))
	for n := range s.models {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func (s *Site) index(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"models": s.Models()})
}

type defaultOrderer interface {
	DefaultOrder() string
}

type validatable interface {
	Validate() error
}

type modelAdmin[T any] struct {
	site  *Site
	name  string
	pk    *schema.Field
	order string
}

// Register mounts T under /<name>/. The model must have a single primary key.
func Register[T any](s *Site, name string) error {
	if _, dup := s.models[name]; dup {
		return fmt.Errorf("admin: %s already registered", name)
	}

	stmt := &gorm.Statement{DB: s.DB}
	if err := stmt.Parse(new(T)); err != nil {
		return fmt.Errorf("admin: parse %s: %w", name, err)
	}
	pk := stmt.Schema.PrioritizedPrimaryField
	if pk == nil {
		return fmt.Errorf("admin: %s has no primary key", name)
	}

	m := &modelAdmin[T]{site: s, name: name, pk: pk, order: pk.DBName + " ASC"}
	if o, ok := any(new(T)).(defaultOrderer); ok {
		m.order = o.DefaultOrder()
	}

	base := "/" + name + "/"
	s.Group.GET(base, m.list)
	s.Group.POST(base, m.create)
	s.Group.GET(base+":id", m.retrieve)
	s.Group.PUT(base+":id", m.update)
	s.Group.PATCH(base+":id", m.update)
	s.Group.DELETE(base+":id", m.delete)

	s.models[name] = stmt.Schema.Table
	s.Logger.Debug("Admin model registered", zap.String("name", name), zap.String("table", stmt.Schema.Table))
	return nil
}

func (m *modelAdmin[T]) byPK(db *gorm.DB, id string) *gorm.DB {
	return db.Where(clause.Eq{Column: clause.Column{Table: clause.CurrentTable, Name: m.pk.DBName}, Value: id})
}

func (m *modelAdmin[T]) fail(c *gin.Context, err error, op string) {
	respond.Error(c, m.site.Logger, dbadapter.Translate(err, op+" "+m.name))
}

func queryInt(c *gin.Context, key string, def int) int {
	n, err := strconv.Atoi(c.Query(key))
	if err != nil || n < 0 {
		return def
	}
	return n
}

func (m *modelAdmin[T]) list(c *gin.Context) {
	limit := queryInt(c, "limit", defaultLimit)
	if limit == 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	offset := queryInt(c, "offset", 0)

	db := m.site.DB.WithContext(c.Request.Context())
	var total int64
	if err := db.Model(new(T)).Count(&total).Error; err != nil {
		m.fail(c, err, "count")
		return
	}

	var rows []T
	if err := db.Order(m.order).Limit(limit).Offset(offset).Find(&rows).Error; err != nil {
		m.fail(c, err, "list")
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": total, "limit": limit, "offset": offset, "results": rows})
}

func (m *modelAdmin[T]) retrieve(c *gin.Context) {
	obj := new(T)
	if err := m.byPK(m.site.DB.WithContext(c.Request.Context()), c.Param("id")).First(obj).Error; err != nil {
		m.fail(c, err, "find")
		return
	}
	c.JSON(http.StatusOK, obj)
}

func (m *modelAdmin[T]) create(c *gin.Context) {
	obj := new(T)
	if err := c.ShouldBindJSON(obj); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}
	if err := m.site.DB.WithContext(c.Request.Context()).Omit(clause.Associations).Create(obj).Error; err != nil {
		m.fail(c, err, "create")
		return
	}
	c.JSON(http.StatusCreated, obj)
}

// update overlays the body onto the stored row. The primary key and
// created_at cannot be changed.
func (m *modelAdmin[T]) update(c *gin.Context) {
	ctx := c.Request.Context()
	db := m.site.DB.WithContext(ctx)

	obj := new(T)
	if err := m.byPK(db, c.Param("id")).First(obj).Error; err != nil {
		m.fail(c, err, "find")
		return
	}

	rv := reflect.ValueOf(obj).Elem()
	pkValue, _ := m.pk.ValueOf(ctx, rv)
	if err := c.ShouldBindJSON(obj); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}
	if err := m.pk.Set(ctx, rv, pkValue); err != nil {
		m.fail(c, err, "update")
		return
	}
	if v, ok := any(obj).(validatable); ok {
		if err := v.Validate(); err != nil {
			m.fail(c, err, "update")
			return
		}
	}

	err := db.Model(obj).
		Select("*").
		Omit(m.pk.Name, "CreatedAt", clause.Associations).
		Updates(obj).Error
	if err != nil {
		m.fail(c, err, "update")
		return
	}
	c.JSON(http.StatusOK, obj)
}

func (m *modelAdmin[T]) delete(c *gin.Context) {
	res := m.byPK(m.site.DB.WithContext(c.Request.Context()), c.Param("id")).Delete(new(T))
	if res.Error != nil {
		m.fail(c, res.Error, "delete")
		return
	}
	if res.RowsAffected == 0 {
		m.fail(c, gorm.ErrRecordNotFound, "delete")
		return
	}
	c.Status(http.StatusNoContent)
}
