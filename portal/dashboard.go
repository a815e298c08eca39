package portal

import (
	"context"
	"errors"
	"sync"
)

// Dashboard is the bundle of entities the admin overview renders in one pass.
type Dashboard struct {
	Students      []Student
	Teachers      []Teacher
	Classes       []string
	Orders        []Order
	Lunch         []LunchItem
	Gallery       []GalleryImage
	Schedule      Schedule
	Bus           BusData
	Notifications []Notification
	Shop          ShopData
	Subjects      []string
	Homework      []HomeworkItem
}

// LoadDashboard fetches every dashboard entity concurrently. Unlike the
// per-repo Get methods it is strict: any failed fetch is reported, joined
// with the others, so the overview can show a real error instead of a page of
// silently empty panels. Successful fetches still populate their fields.
func (c *Client) LoadDashboard(ctx context.Context) (*Dashboard, error) {
	var (
		d    Dashboard
		mu   sync.Mutex
		wg   sync.WaitGroup
		errs []error
	)

	run := func(name string, fn func(ctx context.Context) error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := fn(ctx); err != nil {
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
				c.log.WithField("entity", name).Warnf("dashboard fetch failed: %v", err)
			}
		}()
	}

	run("students", func(ctx context.Context) error {
		v, err := c.students.Fetch(ctx)
		if err == nil {
			mu.Lock()
			d.Students = v
			mu.Unlock()
		}
		return err
	})
	run("teachers", func(ctx context.Context) error {
		v, err := c.teachers.Fetch(ctx)
		if err == nil {
			mu.Lock()
			d.Teachers = v
			mu.Unlock()
		}
		return err
	})
	run("classes", func(ctx context.Context) error {
		v, err := c.classes.Fetch(ctx)
		if err == nil {
			mu.Lock()
			d.Classes = v
			mu.Unlock()
		}
		return err
	})
	run("orders", func(ctx context.Context) error {
		v, err := c.orders.Fetch(ctx)
		if err == nil {
			mu.Lock()
			d.Orders = v
			mu.Unlock()
		}
		return err
	})
	run("lunch", func(ctx context.Context) error {
		v, err := c.lunch.Fetch(ctx)
		if err == nil {
			mu.Lock()
			d.Lunch = v
			mu.Unlock()
		}
		return err
	})
	run("gallery", func(ctx context.Context) error {
		v, err := c.gallery.Fetch(ctx)
		if err == nil {
			mu.Lock()
			d.Gallery = v
			mu.Unlock()
		}
		return err
	})
	run("schedule", func(ctx context.Context) error {
		v, err := c.schedule.Fetch(ctx)
		if err == nil {
			mu.Lock()
			d.Schedule = v
			mu.Unlock()
		}
		return err
	})
	run("bus", func(ctx context.Context) error {
		v, err := c.bus.Fetch(ctx)
		if err == nil {
			mu.Lock()
			d.Bus = v
			mu.Unlock()
		}
		return err
	})
	run("notifications", func(ctx context.Context) error {
		v, err := c.notifications.Fetch(ctx)
		if err == nil {
			mu.Lock()
			d.Notifications = v
			mu.Unlock()
		}
		return err
	})
	run("shop", func(ctx context.Context) error {
		v, err := c.shop.Fetch(ctx)
		if err == nil {
			mu.Lock()
			d.Shop = v
			mu.Unlock()
		}
		return err
	})
	run("subjects", func(ctx context.Context) error {
		v, err := c.subjects.Fetch(ctx)
		if err == nil {
			mu.Lock()
			d.Subjects = v
			mu.Unlock()
		}
		return err
	})
	run("homework", func(ctx context.Context) error {
		v, err := c.homework.Fetch(ctx)
		if err == nil {
			mu.Lock()
			d.Homework = v
			mu.Unlock()
		}
		return err
	})

	wg.Wait()
	if len(errs) > 0 {
		return &d, errors.Join(errs...)
	}
	return &d, nil
}
