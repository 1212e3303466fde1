package pipeline

import (
	conq "github.com/enriquebris/goconcurrentqueue"
)

type fifo interface {
	Enqueue(*Job) error
	Dequeue() (*Job, error)
	GetLen() int
}

type conqFIFO struct {
	conq.FIFO
}

func newConqFIFO() *conqFIFO {
	return &conqFIFO{
		FIFO: *conq.NewFIFO(),
	}
}

func (c *conqFIFO) Enqueue(job *Job) error {
	return c.FIFO.Enqueue(job)
}

func (c *conqFIFO) Dequeue() (*Job, error) {
	tmp, err := c.FIFO.Dequeue()
	if err != nil {
		return nil, err
	}
	return tmp.(*Job), nil
}

func (c *conqFIFO) GetLen() int {
	return c.FIFO.GetLen()
}
