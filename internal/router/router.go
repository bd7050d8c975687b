package router

import (
	"inkwell/internal/handlers"
	"inkwell/internal/identity"
	"inkwell/internal/metrics"
	"inkwell/internal/middleware"
	"inkwell/internal/services"
	"inkwell/internal/utils"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const sessionName = "inkwell_session"

// Deps 路由依赖的服务
type Deps struct {
	Store      *services.ContentStore
	Newsletter *services.Newsletter
	Renderer   *utils.Renderer
	Google     *identity.GoogleAuthenticator
	Metrics    *metrics.Metrics
	Logger     *zap.SugaredLogger

	SiteURL       string
	SessionSecret string
	SecureCookie  bool
	DevLogin      bool
	CommentRate   float64
	CommentBurst  int
}

// New builds the engine with the middleware chain and every route.
func New(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestLogger(d.Logger), middleware.Recover(d.Logger))
	if d.Metrics != nil {
		r.Use(middleware.Metrics(d.Metrics))
	}

	store := cookie.NewStore([]byte(d.SessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   30 * 24 * 3600,
		HttpOnly: true,
		Secure:   d.SecureCookie,
	})
	r.Use(sessions.Sessions(sessionName, store))
	r.Use(middleware.LoadSubject())

	RegisterRoutes(r, d)
	return r
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	postHandler := &handlers.PostHandler{Store: d.Store, Renderer: d.Renderer, Logger: d.Logger}
	commentHandler := &handlers.CommentHandler{Store: d.Store, Logger: d.Logger}
	newsletterHandler := &handlers.NewsletterHandler{Newsletter: d.Newsletter, Logger: d.Logger}
	authHandler := &handlers.AuthHandler{Google: d.Google, Logger: d.Logger}
	streamHandler := handlers.NewStreamHandler(d.Store, d.SiteURL, d.Logger)

	burst := d.CommentBurst
	if burst <= 0 {
		burst = 1
	}
	commentLimiter := middleware.NewRateLimiter(d.CommentRate, burst)

	r.GET("/healthz", handlers.Health(d.Store))
	if d.Metrics != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(d.Metrics.Registry(), promhttp.HandlerOpts{})))
	}

	// 公共接口
	api := r.Group("/api")
	{
		api.GET("/posts", postHandler.List)                                                 // 搜索 + 分类 + 分页
		api.GET("/posts/recent", postHandler.Recent)                                        // 最新文章
		api.GET("/posts/:id", postHandler.Detail)                                           // 文章详情 + 相关文章
		api.POST("/posts/:id/comments", commentLimiter.Middleware(), commentHandler.Create) // 发表评论
		api.GET("/categories", handlers.ListCategories)                                     // 分类列表
		api.POST("/newsletter", newsletterHandler.Subscribe)                                // 订阅邮件
	}

	// 需要登录
	authorized := r.Group("/api")
	authorized.Use(middleware.AuthRequired())
	{
		authorized.POST("/posts", postHandler.Create)       // 发布文章
		authorized.DELETE("/posts/:id", postHandler.Delete) // 删除自己的文章
		authorized.GET("/my/posts", postHandler.Mine)       // 我的文章
		authorized.GET("/me", authHandler.Me)               // 当前用户
	}

	auth := r.Group("/auth")
	{
		auth.GET("/login", authHandler.GoogleLogin)
		auth.GET("/google/callback", authHandler.GoogleCallback)
		auth.POST("/logout", authHandler.Logout)
		if d.DevLogin {
			auth.POST("/dev/login", authHandler.DevLogin)
		}
	}

	r.GET("/ws/posts", streamHandler.Posts)
}
