package service

import "sync"

// CartSignal 购物车已更新信号，不携带内容，订阅方需重新读取存储
type CartSignal struct {
	Origin string
	Tab    string
}

type cartTopic struct {
	origin string
	tab    string
}

// CartNotifier 同一标签页内的购物车变更发布/订阅
type CartNotifier struct {
	mu   sync.Mutex
	subs map[cartTopic]map[*CartSubscription]struct{}
}

// NewCartNotifier 创建通知器
func NewCartNotifier() *CartNotifier {
	return &CartNotifier{subs: make(map[cartTopic]map[*CartSubscription]struct{})}
}

// CartSubscription 单个订阅，使用完必须 Close
type CartSubscription struct {
	notifier *CartNotifier
	topic    cartTopic
	ch       chan CartSignal
	once     sync.Once
}

// Subscribe 订阅 (origin, tab) 的变更信号
func (n *CartNotifier) Subscribe(origin, tab string) *CartSubscription {
	sub := &CartSubscription{
		notifier: n,
		topic:    cartTopic{origin: origin, tab: tab},
		ch:       make(chan CartSignal, 1),
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	set, ok := n.subs[sub.topic]
	if !ok {
		set = make(map[*CartSubscription]struct{})
		n.subs[sub.topic] = set
	}
	set[sub] = struct{}{}
	return sub
}

// Publish 通知 (origin, tab) 的全部订阅者，返回订阅者数量
// 订阅者尚未消费上一个信号时合并为一个。
func (n *CartNotifier) Publish(origin, tab string) int {
	topic := cartTopic{origin: origin, tab: tab}
	signal := CartSignal{Origin: origin, Tab: tab}
	n.mu.Lock()
	defer n.mu.Unlock()
	set := n.subs[topic]
	for sub := range set {
		select {
		case sub.ch <- signal:
		default:
		}
	}
	return len(set)
}

// Subscribers 当前订阅者数量
func (n *CartNotifier) Subscribers(origin, tab string) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.subs[cartTopic{origin: origin, tab: tab}])
}

// C 信号通道，Close 后关闭
func (s *CartSubscription) C() <-chan CartSignal {
	return s.ch
}

// Close 取消订阅，可重复调用
func (s *CartSubscription) Close() {
	s.once.Do(func() {
		n := s.notifier
		n.mu.Lock()
		defer n.mu.Unlock()
		if set, ok := n.subs[s.topic]; ok {
			delete(set, s)
			if len(set) == 0 {
				delete(n.subs, s.topic)
			}
		}
		close(s.ch)
	})
}

// Close 关闭全部订阅，正在监听的视图随之退出
func (n *CartNotifier) Close() {
	n.mu.Lock()
	subs := make([]*CartSubscription, 0)
	for _, set := range n.subs {
		for sub := range set {
			subs = append(subs, sub)
		}
	}
	n.mu.Unlock()
	for _, sub := range subs {
		sub.Close()
	}
}
