package render

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/chai2010/webp"
	"github.com/go-resty/resty/v2"
	log "github.com/sirupsen/logrus"
)

// Loader carga imágenes de diseño por URL con política de mejor esfuerzo:
// el primer pedido dispara la descarga en segundo plano y devuelve "todavía
// no"; cuando la imagen llega queda cacheada y un nuevo pase de render la
// usa. Un fallo deja el estampado sin imagen, nunca corta el flujo.
type Loader struct {
	client *resty.Client

	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.RWMutex
	cache   map[string]image.Image
	pending map[string]bool

	onLoad func(url string)
}

func NewLoader(timeout time.Duration) *Loader {
	ctx, cancel := context.WithCancel(context.Background())
	return &Loader{
		client:  resty.New().SetTimeout(timeout).SetRetryCount(0),
		ctx:     ctx,
		cancel:  cancel,
		cache:   make(map[string]image.Image),
		pending: make(map[string]bool),
	}
}

// OnLoad registra el hook de re-render oportunista: se invoca cuando una
// imagen pedida antes termina de cargar.
func (l *Loader) OnLoad(fn func(url string)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.onLoad = fn
}

// Image implementa ImageSource. Si la imagen no está cacheada dispara la
// descarga y devuelve false; el render sigue sin ella.
func (l *Loader) Image(url string) (image.Image, bool) {
	if url == "" {
		return nil, false
	}
	l.mu.RLock()
	img, ok := l.cache[url]
	l.mu.RUnlock()
	if ok {
		return img, true
	}

	l.mu.Lock()
	if l.pending[url] {
		l.mu.Unlock()
		return nil, false
	}
	l.pending[url] = true
	l.mu.Unlock()

	go l.fetch(url)
	return nil, false
}

// WarmUp descarga en paralelo y espera las URLs que todavía no están en
// caché. Pensado para el render del lado servidor, donde no hay un próximo
// pase; los fallos se ignoran igual que en el camino asíncrono.
func (l *Loader) WarmUp(urls []string) {
	var wg sync.WaitGroup
	for _, u := range urls {
		if u == "" {
			continue
		}
		l.mu.Lock()
		if _, ok := l.cache[u]; ok || l.pending[u] {
			l.mu.Unlock()
			continue
		}
		l.pending[u] = true
		l.mu.Unlock()

		wg.Add(1)
		go func(u string) {
			defer wg.Done()
			l.fetch(u)
		}(u)
	}
	wg.Wait()
}

// Close abandona las cargas en vuelo: lo que resuelva después de acá se
// descarta en vez de aplicarse. Cancela bajo el mismo lock que protege el
// caché para que ninguna carga tardía se cuele entre el chequeo y la
// escritura.
func (l *Loader) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cancel()
}

func (l *Loader) fetch(url string) {
	defer func() {
		l.mu.Lock()
		delete(l.pending, url)
		l.mu.Unlock()
	}()

	resp, err := l.client.R().SetContext(l.ctx).Get(url)
	if err != nil {
		log.WithError(err).WithField("url", url).Debug("no se pudo cargar la imagen de diseño")
		return
	}
	if resp.StatusCode() != http.StatusOK {
		log.WithField("url", url).WithField("status", resp.StatusCode()).Debug("imagen de diseño no disponible")
		return
	}

	img, err := decodeImage(resp.Body())
	if err != nil {
		log.WithError(err).WithField("url", url).Debug("no se pudo decodificar la imagen de diseño")
		return
	}

	l.mu.Lock()
	// Carga vencida: el loader ya fue cerrado y a nadie le interesa. El
	// chequeo va adentro del lock para que sea atómico con la escritura.
	if l.ctx.Err() != nil {
		l.mu.Unlock()
		return
	}
	l.cache[url] = img
	hook := l.onLoad
	l.mu.Unlock()

	if hook != nil {
		hook(url)
	}
}

// Put precarga una imagen ya decodificada. Lo usan los tests y cualquier
// camino que tenga los bytes a mano.
func (l *Loader) Put(url string, img image.Image) {
	l.mu.Lock()
	l.cache[url] = img
	l.mu.Unlock()
}

// decodeImage detecta el tipo por contenido y decodifica jpeg/png/webp.
func decodeImage(data []byte) (image.Image, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("archivo vacío")
	}
	head := data
	if len(head) > 512 {
		head = head[:512]
	}
	ct := http.DetectContentType(head)

	switch {
	case strings.Contains(ct, "jpeg"):
		return jpeg.Decode(bytes.NewReader(data))
	case strings.Contains(ct, "png"):
		return png.Decode(bytes.NewReader(data))
	case strings.Contains(ct, "webp"):
		return webp.Decode(bytes.NewReader(data))
	}
	// Último intento con los decoders registrados.
	img, _, err := image.Decode(bytes.NewReader(data))
	return img, err
}
