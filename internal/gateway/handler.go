package gateway

import (
	"fmt"
	"io"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/sirupsen/logrus"

	"github.com/origin-hub/origin-hub/internal/logging"
	"github.com/origin-hub/origin-hub/internal/origin"
	"github.com/origin-hub/origin-hub/internal/server"
)

// Handler 把文件后端接到 Fiber 上：包装入站请求、调用 Backend.Fetch、
// 回填响应头，并以拉取循环把正文写入下游。取回失败（文件打不开、
// Stat 失败）在这里统一映射为 502，后端核心自身永远不产出 4xx/5xx。
type Handler struct {
	logger *logrus.Logger
}

// NewHandler 构造网关处理器，logger 不能为空。
func NewHandler(logger *logrus.Logger) *Handler {
	return &Handler{logger: logger}
}

// Handle 实现 server.OriginHandler。正文流的所有权在取回成功后归本函数，
// 无论正常耗尽还是下游提前断开，句柄都保证恰好释放一次。
func (h *Handler) Handle(c fiber.Ctx, route *server.OriginRoute) error {
	started := time.Now()
	requestID := server.RequestID(c)

	resp, err := route.Backend.Fetch(fiberRequest{c: c})
	if err != nil {
		h.logResult(c, route, 0, "", requestID, started, err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "origin_fetch_failed"})
	}
	defer resp.Release()

	for name, value := range resp.Headers {
		c.Set(name, value)
	}
	if requestID != "" {
		c.Set("X-Request-ID", requestID)
	}
	c.Status(resp.Status)

	etag := resp.Headers["etag"]
	if resp.Body == nil {
		h.logResult(c, route, resp.Status, etag, requestID, started, nil)
		return nil
	}

	streamErr := h.stream(c, resp.Body)
	h.logResult(c, route, resp.Status, etag, requestID, started, streamErr)
	if streamErr != nil {
		return fiber.NewError(fiber.StatusBadGateway, fmt.Sprintf("origin stream failed: %v", streamErr))
	}
	return nil
}

// stream 以宿主驱动的拉取循环消费正文：反复向流索要下一块，
// 直到上限耗尽。写侧失败同样中止交付。
func (h *Handler) stream(c fiber.Ctx, body *origin.Transfer) error {
	writer := c.Response().BodyWriter()
	buf := make([]byte, 32*1024)
	for {
		n, err := body.Pull(buf)
		if n > 0 {
			if _, wErr := writer.Write(buf[:n]); wErr != nil {
				return wErr
			}
		}
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
	}
}

func (h *Handler) logResult(
	c fiber.Ctx,
	route *server.OriginRoute,
	status int,
	etag string,
	requestID string,
	started time.Time,
	err error,
) {
	fields := logging.RequestFields(
		route.Config.Name,
		route.Config.Domain,
		string(c.Request().URI().Path()),
		status,
	)
	fields["action"] = "serve"
	fields["method"] = c.Method()
	fields["elapsed_ms"] = time.Since(started).Milliseconds()
	if etag != "" {
		fields["cache_validator"] = etag
	}
	if requestID != "" {
		fields["request_id"] = requestID
	}
	if err != nil {
		fields["error"] = err.Error()
		h.logger.WithFields(fields).Error("serve_failed")
		return
	}
	h.logger.WithFields(fields).Info("serve_complete")
}

// fiberRequest 以最小接口包装 fiber.Ctx，供后端核心读取方法、路径与头部。
type fiberRequest struct {
	c fiber.Ctx
}

func (r fiberRequest) Method() string {
	return r.c.Method()
}

func (r fiberRequest) Path() string {
	return string(r.c.Request().URI().Path())
}

// Header 依赖 fiber 的大小写不敏感查找，缺失时返回空串。
func (r fiberRequest) Header(name string) string {
	return r.c.Get(name)
}
